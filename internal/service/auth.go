package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

// maxUsernameLength is the username limit in runes.
const maxUsernameLength = 64

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	// DummyHash returns a valid hash that matches no password.
	DummyHash() string
}

// SessionIssuer creates and destroys sessions.
type SessionIssuer interface {
	Create(ctx context.Context, identityID string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService handles registration, login and logout.
type AuthService struct {
	credentials store.CredentialStore
	hasher      PasswordHasher
	sessions    SessionIssuer
	logger      *slog.Logger
	metrics     metrics.Recorder
	dummyHash   string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	credentials store.CredentialStore,
	hasher PasswordHasher,
	sessions SessionIssuer,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		credentials: credentials,
		hasher:      hasher,
		sessions:    sessions,
		logger:      logger,
		metrics:     recorder,
		dummyHash:   hasher.DummyHash(),
	}
}

// Register creates an identity and returns its id. It does not log in.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	if err := validateCredentials(username, password); err != nil {
		s.metrics.IncRegistration(metrics.OutcomeInvalid)
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return "", fmt.Errorf("hash password: %w", err)
	}

	identity := &model.Identity{
		ID:           newID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// The store arbitrates uniqueness; there is no lookup beforehand.
	if err := s.credentials.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			s.metrics.IncRegistration(metrics.OutcomeConflict)
			return "", model.ErrConflict
		}
		s.metrics.IncRegistration(metrics.OutcomeError)
		return "", fmt.Errorf("create identity: %w", err)
	}

	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	s.logger.Info("identity registered", slog.String("identity_id", identity.ID))
	return identity.ID, nil
}

// Login verifies credentials and returns a new session token. Unknown
// usernames and wrong passwords yield the same error and cost the same.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return "", model.ErrAuthentication
	}

	identity, err := s.credentials.GetIdentityByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrIdentityNotFound) {
		s.metrics.IncLogin(metrics.OutcomeError)
		return "", fmt.Errorf("lookup identity: %w", err)
	}

	hash := s.dummyHash
	if identity != nil {
		hash = identity.PasswordHash
	}

	ok, verifyErr := s.hasher.Verify(password, hash)
	if identity == nil || !ok {
		if verifyErr != nil && identity != nil {
			// A stored hash that cannot be parsed is corrupt data, not bad input.
			s.logger.Error("stored password hash unreadable",
				slog.String("identity_id", identity.ID),
				slog.String("error", verifyErr.Error()),
			)
		}
		s.metrics.IncLogin(metrics.OutcomeFailure)
		s.logger.Info("login failed", slog.String("reason", "invalid_credentials"))
		return "", model.ErrAuthentication
	}

	token, err := s.sessions.Create(ctx, identity.ID)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return "", fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	s.logger.Info("login succeeded", slog.String("identity_id", identity.ID))
	return token, nil
}

// Logout destroys the session for token. Unknown and empty tokens are
// accepted silently.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return err
	}
	s.metrics.IncLogout()
	return nil
}

func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", model.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", model.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", model.ErrValidation, maxUsernameLength)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: username must not contain whitespace", model.ErrValidation)
	}
	return nil
}
