// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CredentialsRequest is the body of POST /register and POST /login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	IdentityID string `json:"identity_id"`
}

// LoginResponse is returned by POST /login. The token is shown only once.
type LoginResponse struct {
	Token string `json:"token"`
}

// LogoutRequest is the optional body of POST /logout.
type LogoutRequest struct {
	Token string `json:"token"`
}
