package identity

import "errors"

// Authentication failures stay on the error channel rather than the business
// Result taxonomy: they are security outcomes, and login deliberately maps
// every cause to the same unauthorized response so account existence and
// lockout state do not leak.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)
