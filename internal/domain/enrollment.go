package domain

import "time"

// Enrollment links one user to one course. The (UserID, CourseID) pair is
// unique; the store enforces it with a constraint and the service layer
// gates on an existence check first.
type Enrollment struct {
	ID             string
	UserID         string
	CourseID       string
	EnrollmentDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
