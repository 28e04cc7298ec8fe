package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

var _ store.CredentialStore = (*Repository)(nil)

// CreateIdentity inserts a new identity. The UNIQUE(username) constraint
// arbitrates concurrent registrations.
func (r *Repository) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	query := `
		INSERT INTO identities (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Username,
		identity.PasswordHash,
		identity.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUsernameTaken
		}
		return oops.With("operation", "create identity").Wrap(err)
	}

	return nil
}

// GetIdentityByUsername retrieves an identity by its exact username.
func (r *Repository) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM identities
		WHERE username = $1
	`

	var identity model.Identity
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&identity.ID,
		&identity.Username,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrIdentityNotFound
		}
		return nil, oops.With("operation", "get identity by username").Wrap(err)
	}

	return &identity, nil
}

// IdentityExists reports whether an identity with id exists.
func (r *Repository) IdentityExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM identities WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "check identity exists").Wrap(err)
	}
	return exists, nil
}
