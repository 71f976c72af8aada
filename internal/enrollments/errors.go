package enrollments

import "github.com/campushq/enrollhub/internal/pkg/result"

// Business failure catalog for the enrollments module.
var (
	ErrEnrollmentNotFound = result.NewError(
		"Enrollment.EnrollmentNotFound",
		"The specified enrollment does not exist.")

	ErrAlreadyEnrolled = result.NewError(
		"Enrollment.AlreadyEnrolled",
		"The user is already enrolled in the specified course.")
)
