package enrollments

import (
	"context"

	"github.com/campushq/enrollhub/internal/domain"
)

// Repository defines the data access contract for enrollments.
type Repository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	List(ctx context.Context) ([]domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error)
	Delete(ctx context.Context, id string) error
	ExistsByUserAndCourse(ctx context.Context, userID, courseID string) (bool, error)
	TotalUnitsForUser(ctx context.Context, userID string) (int, error)
}
