package courses

import (
	"context"

	"github.com/campushq/enrollhub/internal/domain"
)

// Repository defines the interface for course data operations.
// Lookups return ErrCourseNotFound when no row matches; Create returns
// ErrCourseAlreadyExists on a course code conflict.
type Repository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetByCode(ctx context.Context, courseCode string) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	ExistsByCode(ctx context.Context, courseCode string) (bool, error)
}
