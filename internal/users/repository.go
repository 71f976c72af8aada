package users

import (
	"context"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
)

// EnrolledCourse is a row joining an enrollment with its course, used to
// hydrate a user's enrollment list.
type EnrolledCourse struct {
	EnrollmentID   string
	CourseID       string
	CourseCode     string
	Title          string
	Units          int
	EnrollmentDate time.Time
}

// Repository defines the data access contract for users.
type Repository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// ListEnrolledCourses returns the user's enrollments joined with their
	// courses.
	ListEnrolledCourses(ctx context.Context, userID string) ([]EnrolledCourse, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	// AddToRole adds the user to the role's membership and overwrites the
	// user's primary role id in a single transaction.
	AddToRole(ctx context.Context, userID, roleID string) error
}
