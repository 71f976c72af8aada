package roles

import "github.com/campushq/enrollhub/internal/pkg/result"

// Business failure catalog for the roles module.
var (
	ErrRoleNotFound = result.NewError(
		"Role.RoleNotFound",
		"The specified role does not exist.")

	ErrRoleAlreadyExists = result.NewError(
		"Role.RoleAlreadyExists",
		"A role with the specified name already exists.")
)
