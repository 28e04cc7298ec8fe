package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnote/quillnote/internal/auth"
	"github.com/quillnote/quillnote/internal/service"
	"github.com/quillnote/quillnote/internal/session"
	"github.com/quillnote/quillnote/internal/store/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthTestHandler(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	manager := session.NewManager(memory.NewSessionStore(), session.NoExpiry)
	gate := service.NewGate(manager, nil, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(auth.IdentityFromContext(r.Context())))
	})
	return Auth(AuthConfig{Logger: discardLogger(), Gate: gate})(next), manager
}

func TestAuth_TokenSources(t *testing.T) {
	t.Parallel()
	handler, manager := newAuthTestHandler(t)
	token, err := manager.Create(context.Background(), "alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }},
		{"session header", func(r *http.Request) { r.Header.Set(SessionTokenHeader, token) }},
		{"session cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "alice", rec.Body.String())
		})
	}
}

func TestAuth_RejectsUniformly(t *testing.T) {
	t.Parallel()
	handler, manager := newAuthTestHandler(t)

	revoked, err := manager.Create(context.Background(), "alice")
	require.NoError(t, err)
	require.NoError(t, manager.Destroy(context.Background(), revoked))

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no token", func(r *http.Request) {}},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-session") }},
		{"revoked token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revoked) }},
		{"basic auth scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic YWxpY2U6cHc=") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Not authenticated","code":"UNAUTHORIZED"}`, rec.Body.String())
		})
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis: connection refused")
}

func TestAuth_StoreFailureIs500(t *testing.T) {
	t.Parallel()
	gate := service.NewGate(failingResolver{}, nil, nil)
	called := false
	handler := Auth(AuthConfig{Logger: discardLogger(), Gate: gate})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestTokenFromRequest_Precedence(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-bearer")
	req.Header.Set(SessionTokenHeader, "from-header")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

	assert.Equal(t, "from-bearer", TokenFromRequest(req))

	req.Header.Del("Authorization")
	assert.Equal(t, "from-header", TokenFromRequest(req))

	req.Header.Del(SessionTokenHeader)
	assert.Equal(t, "from-cookie", TokenFromRequest(req))

	assert.Empty(t, TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestAuth_LogsNoToken(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	gate := service.NewGate(session.NewManager(memory.NewSessionStore(), session.NoExpiry), nil, nil)
	handler := Auth(AuthConfig{Logger: logger, Gate: gate})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "invalid_session")
	assert.NotContains(t, buf.String(), "secret-token-value")
}
