package models

import "sort"

// UnknownEmail is shown when neither the operator nor the server supplied an email.
const UnknownEmail = "N/A"

// EmailFeatureKey is the feature payload entry that carries the user's email.
const EmailFeatureKey = "Email"

// UserRecord is the user currently loaded into the console.
type UserRecord struct {
	ID       string                  `json:"id"`
	Email    string                  `json:"email"`
	Features map[string]FeatureValue `json:"features"`
}

// NewUserRecord builds a record from a fetched feature payload. operatorEmail wins over the
// payload's Email entry, which wins over UnknownEmail.
func NewUserRecord(id, operatorEmail string, features map[string]FeatureValue) *UserRecord {
	if features == nil {
		features = make(map[string]FeatureValue)
	}

	email := operatorEmail
	if email == "" {
		if v, ok := features[EmailFeatureKey]; ok {
			if s, ok := v.Text(); ok && s != "" {
				email = s
			}
		}
	}
	if email == "" {
		email = UnknownEmail
	}

	return &UserRecord{
		ID:       id,
		Email:    email,
		Features: features,
	}
}

// Feature returns the current value for key.
func (u *UserRecord) Feature(key string) (FeatureValue, bool) {
	v, ok := u.Features[key]
	return v, ok
}

// Clone returns a deep copy so callers cannot mutate the owned record.
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	features := make(map[string]FeatureValue, len(u.Features))
	for k, v := range u.Features {
		features[k] = v.clone()
	}
	return &UserRecord{
		ID:       u.ID,
		Email:    u.Email,
		Features: features,
	}
}

// SortedKeys returns the feature keys in ascending order.
func (u *UserRecord) SortedKeys() []string {
	keys := make([]string, 0, len(u.Features))
	for k := range u.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
