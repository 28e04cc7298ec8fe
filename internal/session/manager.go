package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillnote/quillnote/internal/auth"
	"github.com/quillnote/quillnote/internal/model"
)

// maxCreateAttempts bounds retries on token hash collisions.
const maxCreateAttempts = 3

// Manager owns the session table. The authorization gate only reads
// through Resolve.
type Manager struct {
	store      Store
	identities IdentityChecker
	policy     Policy
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdentityChecker makes Resolve reject sessions whose identity no
// longer exists.
func WithIdentityChecker(c IdentityChecker) Option {
	return func(m *Manager) { m.identities = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over store with the given expiry policy.
func NewManager(store Store, policy Policy, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		policy: policy,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the expiry policy in effect.
func (m *Manager) Policy() Policy {
	return m.policy
}

// Create issues a new session for identityID and returns the plaintext token.
func (m *Manager) Create(ctx context.Context, identityID string) (string, error) {
	if identityID == "" {
		return "", errors.New("create session: empty identity id")
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		token, hash, err := auth.GenerateSessionToken()
		if err != nil {
			return "", err
		}

		now := m.now().UTC()
		s := &model.Session{
			TokenHash:  hash,
			IdentityID: identityID,
			CreatedAt:  now,
			ExpiresAt:  m.policy.ExpiresAt(now),
		}

		err = m.store.Create(ctx, s)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrTokenCollision) {
			return "", fmt.Errorf("create session: %w", err)
		}
	}

	return "", fmt.Errorf("create session: %w after %d attempts", ErrTokenCollision, maxCreateAttempts)
}

// Resolve maps a token to its identity id. ok is false when the token is
// empty, unknown, expired, or bound to an identity that no longer exists.
// err is reserved for store failures.
func (m *Manager) Resolve(ctx context.Context, token string) (identityID string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}

	hash := auth.HashToken(token)
	s, err := m.store.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolve session: %w", err)
	}

	if s.IsExpiredAt(m.now()) {
		m.discard(ctx, hash, "expired")
		return "", false, nil
	}

	if m.identities != nil {
		exists, err := m.identities.IdentityExists(ctx, s.IdentityID)
		if err != nil {
			return "", false, fmt.Errorf("resolve session identity: %w", err)
		}
		if !exists {
			m.discard(ctx, hash, "orphaned")
			return "", false, nil
		}
	}

	return s.IdentityID, true, nil
}

// Destroy removes the session for token. Destroying an absent session is
// not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, auth.HashToken(token)); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// discard removes an unusable session. Failures are logged, not returned:
// the session is already treated as absent.
func (m *Manager) discard(ctx context.Context, hash, reason string) {
	if err := m.store.Delete(ctx, hash); err != nil {
		m.logger.Warn("failed to discard session",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
	}
}
