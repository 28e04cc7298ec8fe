package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quillnote/quillnote/internal/auth"
	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/service"
)

const (
	// SessionTokenHeader carries a session token for clients that cannot
	// use the Authorization header.
	SessionTokenHeader = "X-Session-Token"
	// SessionCookieName is the cookie set on login.
	SessionCookieName = "session"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Gate   *service.Gate
}

// Auth returns a middleware that admits only requests carrying a live
// session. The resolved identity id is placed in the request context;
// rejected requests get a 401 and never reach next.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)

			decision, err := cfg.Gate.Authorize(r.Context(), token)
			if err != nil {
				if errors.Is(err, model.ErrAuthorization) {
					reason := "invalid_session"
					if token == "" {
						reason = "missing_token"
					}
					cfg.Logger.Warn("authorization rejected",
						slog.String("reason", reason),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w)
					return
				}

				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}

			if decision.State != service.Resolved {
				writeAuthError(w)
				return
			}

			setLoggedIdentity(r.Context(), decision.IdentityID)
			ctx := auth.ContextWithIdentity(r.Context(), decision.IdentityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the request.
// Checked in order: "Authorization: Bearer <token>", X-Session-Token, and
// the session cookie. Returns "" if none is present.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if token := r.Header.Get(SessionTokenHeader); token != "" {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
}
