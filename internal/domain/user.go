package domain

import "time"

// Well-known role names. Roles are persisted records, not an enum; these are
// the two names the registration flow assigns.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

// User represents a registered account. Related enrollments and role
// memberships are derived queries against the store, not embedded here.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	BirthDate    time.Time
	RoleID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Lockout state, owned by the identity module.
	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// FullName returns the display name used in projections.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsLockedOut reports whether the account is locked at the given instant.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
