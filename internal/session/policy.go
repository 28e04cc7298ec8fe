package session

import "time"

// Policy is the session expiry hook.
type Policy struct {
	// TTL is the lifetime of a new session. Zero means sessions never
	// expire on their own and live until logout.
	TTL time.Duration
}

// NoExpiry keeps sessions until they are destroyed explicitly.
var NoExpiry = Policy{}

// WithTTL returns a policy expiring sessions ttl after creation.
// A non-positive ttl yields NoExpiry.
func WithTTL(ttl time.Duration) Policy {
	if ttl <= 0 {
		return NoExpiry
	}
	return Policy{TTL: ttl}
}

// Expires reports whether sessions created under this policy expire.
func (p Policy) Expires() bool {
	return p.TTL > 0
}

// ExpiresAt computes the expiry for a session created at createdAt.
// Returns nil under NoExpiry.
func (p Policy) ExpiresAt(createdAt time.Time) *time.Time {
	if !p.Expires() {
		return nil
	}
	t := createdAt.Add(p.TTL)
	return &t
}

// String describes the policy for logs.
func (p Policy) String() string {
	if !p.Expires() {
		return "no-expiry"
	}
	return "ttl=" + p.TTL.String()
}
