package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillnote/quillnote/internal/handler/dto"
	"github.com/quillnote/quillnote/internal/middleware"
	"github.com/quillnote/quillnote/internal/service"
)

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	// Secure marks the cookie HTTPS-only.
	Secure bool
	// TTL is the cookie lifetime. Zero issues a browser-session cookie,
	// matching sessions that never expire server-side.
	TTL time.Duration
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	svc    *service.AuthService
	cookie CookieConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identityID, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{IdentityID: identityID})
}

// Login handles POST /login. The token is returned in the body and also
// set as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token))
	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

// Logout handles POST /logout. The token is read from a JSON body first,
// then from the request headers or cookie. An unreadable body is ignored so
// a header or cookie token is still destroyed. Unknown tokens still succeed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			h.logger.Debug("logout body ignored", slog.String("error", err.Error()))
		}
		req = dto.LogoutRequest{}
	}

	token := req.Token
	if token == "" {
		token = middleware.TokenFromRequest(r)
	}

	if err := h.svc.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	expired := h.sessionCookie("")
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookie.TTL > 0 {
		c.MaxAge = int(h.cookie.TTL.Seconds())
	}
	return c
}
