// Package models contains domain models for the admin console.
package models

import "time"

// AdminSessionTTL is how long an issued admin token is trusted before a new login is made.
const AdminSessionTTL = 24 * time.Hour

// AdminSession is the cached administrative bearer token.
// Token and ExpiresAt are always stored and loaded together.
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAdminSession creates a session for token that expires ttl after now.
func NewAdminSession(token string, now time.Time, ttl time.Duration) *AdminSession {
	return &AdminSession{
		Token:     token,
		ExpiresAt: now.Add(ttl).UTC(),
	}
}

// ValidAt reports whether the session can still be handed out at now.
func (s *AdminSession) ValidAt(now time.Time) bool {
	return s != nil && s.Token != "" && s.ExpiresAt.After(now)
}
