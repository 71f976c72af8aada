package domain

import "time"

// Role is a named permission group. Membership is kept in the user_roles
// join table; a user's primary role is User.RoleID.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
