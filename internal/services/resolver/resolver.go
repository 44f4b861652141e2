// Package resolver turns operator search input into a loaded user record.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/token"
)

// Directory looks users up in the admin API.
type Directory interface {
	LookupUserID(ctx context.Context, token, email string) (string, error)
	GetUserFeatures(ctx context.Context, token, userID string) (map[string]models.FeatureValue, error)
}

// SearchKey is the single search input chosen from the operator's two fields.
type SearchKey struct {
	Field models.SearchField
	Value string
}

// Config holds the configuration for the resolver.
type Config struct {
	Directory Directory
	Tokens    token.Provider
	Logger    *zerolog.Logger
}

// Resolver implements user resolution.
type Resolver struct {
	directory Directory
	tokens    token.Provider
	logger    zerolog.Logger
}

// NewResolver creates a new resolver.
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("directory is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Resolver{
		directory: cfg.Directory,
		tokens:    cfg.Tokens,
		logger:    logger.With().Str("component", "resolver").Logger(),
	}, nil
}

// ChooseSearchKey picks the search input to use. When both are filled the id wins only if
// it was the field edited last. ok is false when both are empty.
func ChooseSearchKey(idInput, emailInput string, lastEdited models.SearchField) (SearchKey, bool) {
	id := strings.TrimSpace(idInput)
	email := strings.TrimSpace(emailInput)

	switch {
	case id != "" && email != "":
		if lastEdited == models.SearchFieldID {
			return SearchKey{Field: models.SearchFieldID, Value: id}, true
		}
		return SearchKey{Field: models.SearchFieldEmail, Value: email}, true
	case id != "":
		return SearchKey{Field: models.SearchFieldID, Value: id}, true
	case email != "":
		return SearchKey{Field: models.SearchFieldEmail, Value: email}, true
	default:
		return SearchKey{}, false
	}
}

// Resolve loads the user identified by the operator's input. It does not touch any
// displayed state; callers install the returned record on success.
func (r *Resolver) Resolve(ctx context.Context, idInput, emailInput string, lastEdited models.SearchField) (*models.UserRecord, error) {
	key, ok := ChooseSearchKey(idInput, emailInput, lastEdited)
	if !ok {
		return nil, domainerrors.NewValidationError("missing search key", "enter a user id or an email")
	}

	bearer, err := r.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	userID := key.Value
	operatorEmail := ""
	if key.Field == models.SearchFieldEmail {
		operatorEmail = key.Value
		userID, err = r.directory.LookupUserID(ctx, bearer, key.Value)
		if err != nil {
			return nil, err
		}
	}

	features, err := r.directory.GetUserFeatures(ctx, bearer, userID)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("search_field", string(key.Field)).
		Int("features", len(features)).
		Msg("user resolved")

	return models.NewUserRecord(userID, operatorEmail, features), nil
}
