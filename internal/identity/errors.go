package identity

import "errors"

// Business errors returned by the identity service.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Token verification errors. The HTTP layer collapses all of them into a
// single uniform 401 response so callers cannot probe verification internals.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrInvalidToken   = errors.New("invalid token")
)
