package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FeatureKind identifies which variant a FeatureValue holds.
type FeatureKind string

const (
	FeatureKindNull   FeatureKind = "null"
	FeatureKindBool   FeatureKind = "bool"
	FeatureKindNumber FeatureKind = "number"
	FeatureKindText   FeatureKind = "text"
	// FeatureKindRaw holds nested JSON (objects, arrays) that the console displays but never edits.
	FeatureKindRaw FeatureKind = "raw"
)

// FeatureValue is a single feature flag value. The zero value is null.
type FeatureValue struct {
	kind FeatureKind
	b    bool
	n    float64
	s    string
	raw  json.RawMessage
}

// Bool creates a boolean feature value.
func Bool(v bool) FeatureValue {
	return FeatureValue{kind: FeatureKindBool, b: v}
}

// Number creates a numeric feature value.
func Number(v float64) FeatureValue {
	return FeatureValue{kind: FeatureKindNumber, n: v}
}

// Text creates a text feature value.
func Text(v string) FeatureValue {
	return FeatureValue{kind: FeatureKindText, s: v}
}

// Null creates a null feature value.
func Null() FeatureValue {
	return FeatureValue{kind: FeatureKindNull}
}

// Kind returns the variant held by v.
func (v FeatureValue) Kind() FeatureKind {
	if v.kind == "" {
		return FeatureKindNull
	}
	return v.kind
}

// Bool returns the boolean held by v.
func (v FeatureValue) Bool() (bool, bool) {
	return v.b, v.kind == FeatureKindBool
}

// Number returns the number held by v.
func (v FeatureValue) Number() (float64, bool) {
	return v.n, v.kind == FeatureKindNumber
}

// Text returns the text held by v.
func (v FeatureValue) Text() (string, bool) {
	return v.s, v.kind == FeatureKindText
}

// Truthy follows the loose truthiness the toggle control relies on: null, false, 0, NaN
// and "" are false, everything else is true.
func (v FeatureValue) Truthy() bool {
	switch v.Kind() {
	case FeatureKindBool:
		return v.b
	case FeatureKindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case FeatureKindText:
		return v.s != ""
	case FeatureKindRaw:
		return true
	default:
		return false
	}
}

// Equal reports whether two values hold the same variant and content.
func (v FeatureValue) Equal(other FeatureValue) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case FeatureKindBool:
		return v.b == other.b
	case FeatureKindNumber:
		return v.n == other.n
	case FeatureKindText:
		return v.s == other.s
	case FeatureKindRaw:
		return bytes.Equal(v.raw, other.raw)
	default:
		return true
	}
}

// String renders the value for display. Null renders as an empty string.
func (v FeatureValue) String() string {
	switch v.Kind() {
	case FeatureKindBool:
		return strconv.FormatBool(v.b)
	case FeatureKindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case FeatureKindText:
		return v.s
	case FeatureKindRaw:
		return string(v.raw)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as its natural JSON type.
func (v FeatureValue) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case FeatureKindBool:
		return json.Marshal(v.b)
	case FeatureKindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, fmt.Errorf("feature value %v is not representable in JSON", v.n)
		}
		return json.Marshal(v.n)
	case FeatureKindText:
		return json.Marshal(v.s)
	case FeatureKindRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value into the matching variant.
func (v *FeatureValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty feature value")
	}

	switch c := trimmed[0]; {
	case c == 'n':
		*v = Null()
	case c == 't' || c == 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
	case c == '-' || (c >= '0' && c <= '9'):
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = Number(n)
	case c == '{' || c == '[':
		if !json.Valid(trimmed) {
			return fmt.Errorf("invalid nested feature value")
		}
		*v = FeatureValue{kind: FeatureKindRaw, raw: append(json.RawMessage(nil), trimmed...)}
	default:
		return fmt.Errorf("unsupported feature value %q", trimmed)
	}
	return nil
}

func (v FeatureValue) clone() FeatureValue {
	if v.raw != nil {
		v.raw = append(json.RawMessage(nil), v.raw...)
	}
	return v
}
