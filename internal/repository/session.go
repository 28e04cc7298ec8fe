package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/session"
)

// SessionStore keeps sessions in the sessions table. It shares the
// Repository's pool.
type SessionStore struct {
	repo *Repository
}

var _ session.Store = (*SessionStore)(nil)

// Sessions returns the postgres session store.
func (r *Repository) Sessions() *SessionStore {
	return &SessionStore{repo: r}
}

// Create inserts s. A duplicate token hash yields session.ErrTokenCollision.
func (s *SessionStore) Create(ctx context.Context, sess *model.Session) error {
	query := `
		INSERT INTO sessions (token_hash, identity_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.repo.pool.Exec(ctx, query,
		sess.TokenHash,
		sess.IdentityID,
		sess.CreatedAt,
		sess.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return session.ErrTokenCollision
		}
		return oops.With("operation", "create session").Wrap(err)
	}
	return nil
}

// Get returns the live session stored under tokenHash.
func (s *SessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	query := `
		SELECT token_hash, identity_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1 AND (expires_at IS NULL OR expires_at > now())
	`

	var sess model.Session
	err := s.repo.pool.QueryRow(ctx, query, tokenHash).Scan(
		&sess.TokenHash,
		&sess.IdentityID,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, oops.With("operation", "get session").Wrap(err)
	}
	return &sess, nil
}

// Delete removes the session. Absent sessions are ignored.
func (s *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	if _, err := s.repo.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return oops.With("operation", "delete session").Wrap(err)
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many rows
// were removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.repo.pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, oops.With("operation", "purge expired sessions").Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (s *SessionStore) RunPurger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Debug("expired sessions purged", slog.Int64("count", n))
			}
		}
	}
}
