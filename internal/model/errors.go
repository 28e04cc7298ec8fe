package model

import "errors"

// Error kinds shared by every layer. Components wrap these with
// fmt.Errorf("%w: ...") and the HTTP boundary maps them with errors.Is.
var (
	// ErrValidation indicates malformed or empty input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the username is already registered.
	ErrConflict = errors.New("username already exists")
	// ErrAuthentication indicates bad credentials. Unknown username and
	// wrong password are both reported with this error.
	ErrAuthentication = errors.New("invalid username or password")
	// ErrNotFound indicates the resource is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrAuthorization indicates a missing or invalid session.
	ErrAuthorization = errors.New("not authenticated")
)
