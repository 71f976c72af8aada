package domain

import "time"

// Unit bounds for a course.
const (
	MinCourseUnits = 1
	MaxCourseUnits = 10
)

// Course is a catalog entry. CourseCode is the business key and unique.
type Course struct {
	ID         string
	CourseCode string
	Title      string
	Units      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
