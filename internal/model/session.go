package model

import "time"

// Session binds a hashed session token to an identity.
// The plaintext token is never stored.
type Session struct {
	TokenHash  string
	IdentityID string
	CreatedAt  time.Time
	ExpiresAt  *time.Time // nil means the session never expires
}

// IsExpiredAt reports whether the session is expired at the given instant.
func (s *Session) IsExpiredAt(t time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return !t.Before(*s.ExpiresAt)
}

// TTL returns the remaining lifetime of the session relative to now.
// Returns 0 for sessions without expiry.
func (s *Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt == nil {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
