package users

import "github.com/campushq/enrollhub/internal/pkg/result"

// Business failure catalog for the users module.
var (
	ErrUserNotFound = result.NewError(
		"User.UserNotFound",
		"The specified user does not exist.")

	ErrEmailAlreadyExists = result.NewError(
		"User.EmailAlreadyExists",
		"A user with the specified email already exists.")
)
