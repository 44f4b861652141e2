// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"

	"github.com/unifiedui/admin-console/internal/domain/models"
)

// EditSearchRequest reports the operator's current search inputs.
type EditSearchRequest struct {
	// Field is the input the operator edited last: "id" or "email".
	Field  string `json:"field"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// FindUserRequest represents the request body for resolving a user.
type FindUserRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	// LastEdited overrides the remembered last-edited field: "id" or "email".
	LastEdited string `json:"lastEdited"`
}

// UpdateTokensRequest represents the request body for setting the token balance.
// Amount is accepted as a JSON string or number and parsed like the console input.
type UpdateTokensRequest struct {
	Amount json.RawMessage `json:"amount" swaggertype:"string"`
}

// AmountText returns the raw amount input.
func (r UpdateTokensRequest) AmountText() string {
	raw := bytes.TrimSpace(r.Amount)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// SetFeatureRequest represents the request body for setting a feature value.
type SetFeatureRequest struct {
	Value *models.FeatureValue `json:"value" binding:"required" swaggertype:"object"`
}

// SetFeatureOptionRequest represents the request body for choosing a listed option.
type SetFeatureOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

// SetCollapsedRequest represents the request body for collapsing or expanding the panel.
type SetCollapsedRequest struct {
	Collapsed *bool `json:"collapsed" binding:"required"`
}

// MovePanelRequest represents the request body for moving the panel.
type MovePanelRequest struct {
	Left int `json:"left"`
	Top  int `json:"top"`
}
