package features

import (
	"math"
	"strconv"
	"strings"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
)

// Coerce converts proposed to the type of current. Numeric features only accept numbers
// or text that parses as a finite number; every other feature takes proposed as is.
func Coerce(current, proposed models.FeatureValue) (models.FeatureValue, error) {
	if current.Kind() != models.FeatureKindNumber {
		return proposed, nil
	}

	switch proposed.Kind() {
	case models.FeatureKindNumber:
		n, _ := proposed.Number()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return models.FeatureValue{}, domainerrors.NewValidationError("invalid number format", proposed.String())
		}
		return proposed, nil
	case models.FeatureKindText:
		s, _ := proposed.Text()
		n, err := ParseNumber(s)
		if err != nil {
			return models.FeatureValue{}, domainerrors.NewValidationError("invalid number format", s)
		}
		return models.Number(n), nil
	default:
		return models.FeatureValue{}, domainerrors.NewValidationError("invalid number format", string(proposed.Kind()))
	}
}

// ParseNumber parses operator text as a number. Surrounding whitespace is ignored, blank
// text is zero, and 0x, 0o and 0b prefixes select the base. Digit separators and
// non-finite results are rejected.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.ContainsRune(s, '_') {
		return 0, strconv.ErrSyntax
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, err
			}
			return float64(u), nil
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// ParseAmount reads the leading base-10 integer of s after optional whitespace and sign.
// ok is false when s has no leading digits.
func ParseAmount(s string) (amount int, ok bool, err error) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false, nil
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, true, domainerrors.NewValidationError("token amount out of range", s[:end])
	}
	return n, true, nil
}

// OptionLabel renders a configured option for display.
func OptionLabel(option string) string {
	return strings.TrimSpace(optionLabelReplacer.Replace(option))
}

var optionLabelReplacer = strings.NewReplacer("test_", " ", "_", " ")
