package courses

import "github.com/campushq/enrollhub/internal/pkg/result"

// Business failure catalog for the courses module.
var (
	ErrCourseNotFound = result.NewError(
		"Course.CourseNotFound",
		"The specified course does not exist.")

	ErrCourseAlreadyExists = result.NewError(
		"Course.CourseAlreadyExists",
		"A course with the specified course code already exists.")
)
