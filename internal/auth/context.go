package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityContextKey stores the identity id resolved by the authorization gate.
const identityContextKey contextKey = "identity_id"

// ContextWithIdentity stores the acting identity id in the context.
func ContextWithIdentity(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, identityContextKey, identityID)
}

// IdentityFromContext returns the acting identity id.
// Returns "" when the request did not pass the authorization gate.
func IdentityFromContext(ctx context.Context) string {
	id, _ := ctx.Value(identityContextKey).(string)
	return id
}
