// Package session issues, resolves and destroys session tokens.
//
// Tokens are opaque: the Manager never derives an identity from a token's
// structure. Every resolution goes through the Store, which is keyed by
// the SHA-256 hash of the token.
package session

import (
	"context"
	"errors"

	"github.com/quillnote/quillnote/internal/model"
)

var (
	// ErrNotFound is returned by a Store when no session has the given hash.
	ErrNotFound = errors.New("session not found")
	// ErrTokenCollision is returned by Store.Create when the hash is taken.
	ErrTokenCollision = errors.New("session token collision")
)

// Store is the durable session table.
// Implementations must make each call atomic for the record it touches.
type Store interface {
	// Create inserts a session. Returns ErrTokenCollision if the token hash
	// is already present; it never overwrites.
	Create(ctx context.Context, s *model.Session) error

	// Get returns the session stored under tokenHash or ErrNotFound.
	Get(ctx context.Context, tokenHash string) (*model.Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, tokenHash string) error
}

// IdentityChecker reports whether an identity still exists. The Manager
// uses it to treat sessions bound to a vanished identity as absent.
type IdentityChecker interface {
	IdentityExists(ctx context.Context, identityID string) (bool, error)
}
