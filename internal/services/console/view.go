package console

import (
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/features"
)

// Indicators shown next to action results.
const (
	IndicatorSuccess = "✅"
	IndicatorFailure = "❌"
	IndicatorInfo    = "ℹ️"
	IndicatorBusy    = "⏳"
)

// maxDisplayKeyLen is the longest feature key shown without truncation.
const maxDisplayKeyLen = 35

// Feature controls.
const (
	ControlToggle  = "toggle"
	ControlInput   = "input"
	ControlOptions = "options"
)

// View is what the console shows.
type View struct {
	Environment string            `json:"environment"`
	User        *UserView         `json:"user,omitempty"`
	Panel       models.PanelState `json:"panel"`
	SearchHint  string            `json:"searchHint,omitempty"`
}

// UserView is the loaded user as displayed.
type UserView struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Features []FeatureRow `json:"features"`
}

// FeatureRow is one displayed feature.
type FeatureRow struct {
	Key        string              `json:"key"`
	DisplayKey string              `json:"displayKey"`
	Kind       models.FeatureKind  `json:"kind"`
	Value      models.FeatureValue `json:"value"`
	Display    string              `json:"display"`
	Control    string              `json:"control"`
	Options    []Option            `json:"options,omitempty"`
}

// Option is a selectable value of an option-backed feature.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DisplayKey shortens keys longer than 35 characters to 34 characters and an ellipsis.
func DisplayKey(key string) string {
	runes := []rune(key)
	if len(runes) > maxDisplayKeyLen {
		return string(runes[:maxDisplayKeyLen-1]) + "..."
	}
	return key
}

// SearchHint tells the operator which input a search will use when both are filled.
func SearchHint(idInput, emailInput string, lastEdited models.SearchField) string {
	if idInput == "" || emailInput == "" {
		return ""
	}
	if lastEdited == models.SearchFieldID {
		return IndicatorInfo + " Search will use User ID"
	}
	return IndicatorInfo + " Search will use Email"
}

func buildUserView(user *models.UserRecord, engine *features.Engine) *UserView {
	if user == nil {
		return nil
	}

	rows := make([]FeatureRow, 0, len(user.Features))
	for _, key := range user.SortedKeys() {
		if !engine.IsInteractive(key) {
			continue
		}
		value := user.Features[key]
		row := FeatureRow{
			Key:        key,
			DisplayKey: DisplayKey(key),
			Kind:       value.Kind(),
			Value:      value,
			Display:    value.String(),
			Control:    ControlInput,
		}
		if opts := engine.Options(key); opts != nil {
			row.Control = ControlOptions
			row.Options = buildOptions(opts)
		} else if value.Kind() == models.FeatureKindBool {
			row.Control = ControlToggle
		}
		rows = append(rows, row)
	}

	return &UserView{ID: user.ID, Email: user.Email, Features: rows}
}

func buildOptions(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: features.OptionLabel(v)})
	}
	return out
}
