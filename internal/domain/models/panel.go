package models

import "strings"

// SearchField names one of the two mutually exclusive search inputs.
type SearchField string

const (
	// SearchFieldNone means the operator has not typed into either input yet.
	SearchFieldNone  SearchField = ""
	SearchFieldID    SearchField = "id"
	SearchFieldEmail SearchField = "email"
)

// ParseSearchField converts operator input into a SearchField.
// Unknown values map to SearchFieldNone.
func ParseSearchField(s string) SearchField {
	switch SearchField(strings.ToLower(strings.TrimSpace(s))) {
	case SearchFieldID:
		return SearchFieldID
	case SearchFieldEmail:
		return SearchFieldEmail
	default:
		return SearchFieldNone
	}
}

// Position is the panel's top-left corner in pixels.
type Position struct {
	Left int `json:"left"`
	Top  int `json:"top"`
}

// PanelState is the operator-facing UI state of the console.
// Position and Collapsed persist across restarts; LastEditedField lives in memory only.
type PanelState struct {
	Position        *Position   `json:"position,omitempty"`
	Collapsed       bool        `json:"collapsed"`
	LastEditedField SearchField `json:"lastEditedField,omitempty"`
}
