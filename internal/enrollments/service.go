// Package enrollments records which users are enrolled in which courses. A
// (user, course) pair is unique; a second enrollment attempt for the same pair
// is a business failure, not a fault.
package enrollments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/pkg/metrics"
	"github.com/campushq/enrollhub/internal/pkg/result"
)

// Enrollment is the transport-facing projection of an enrollment.
type Enrollment struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CourseID       string    `json:"course_id"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateEnrollmentInput holds data for creating an enrollment.
type CreateEnrollmentInput struct {
	UserID   string
	CourseID string
}

// Service implements enrollment business logic.
type Service struct {
	repo Repository
}

// NewService creates a new enrollment service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create enrolls a user in a course, stamping the enrollment with the current
// time. The pair is gated on uniqueness before insert; the store's unique
// constraint backstops the gate under concurrent requests. Referential
// integrity of the user and course ids is owned by the store.
func (s *Service) Create(ctx context.Context, in CreateEnrollmentInput) (result.Result[Enrollment], error) {
	exists, err := s.repo.ExistsByUserAndCourse(ctx, in.UserID, in.CourseID)
	if err != nil {
		return result.Result[Enrollment]{}, fmt.Errorf("check enrollment pair: %w", err)
	}
	if exists {
		return result.Failure[Enrollment](ErrAlreadyEnrolled), nil
	}

	enrollment := &domain.Enrollment{
		UserID:         in.UserID,
		CourseID:       in.CourseID,
		EnrollmentDate: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return result.Failure[Enrollment](ErrAlreadyEnrolled), nil
		}
		return result.Result[Enrollment]{}, fmt.Errorf("create enrollment: %w", err)
	}

	metrics.EnrollmentsCreated.Inc()
	return result.Success(projectEnrollment(enrollment)), nil
}

// GetByID retrieves an enrollment by id.
func (s *Service) GetByID(ctx context.Context, id string) (result.Result[Enrollment], error) {
	enrollment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return result.Failure[Enrollment](ErrEnrollmentNotFound), nil
		}
		return result.Result[Enrollment]{}, fmt.Errorf("get enrollment: %w", err)
	}

	return result.Success(projectEnrollment(enrollment)), nil
}

// List returns all enrollments. An empty store is a success with an empty slice.
func (s *Service) List(ctx context.Context) (result.Result[[]Enrollment], error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return result.Result[[]Enrollment]{}, fmt.Errorf("list enrollments: %w", err)
	}
	return result.Success(projectEnrollments(list)), nil
}

// ListByUser returns all enrollments for a given user.
func (s *Service) ListByUser(ctx context.Context, userID string) (result.Result[[]Enrollment], error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return result.Result[[]Enrollment]{}, fmt.Errorf("list enrollments by user: %w", err)
	}
	return result.Success(projectEnrollments(list)), nil
}

// ListByCourse returns all enrollments for a given course.
func (s *Service) ListByCourse(ctx context.Context, courseID string) (result.Result[[]Enrollment], error) {
	list, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return result.Result[[]Enrollment]{}, fmt.Errorf("list enrollments by course: %w", err)
	}
	return result.Success(projectEnrollments(list)), nil
}

// TotalUnitsForUser sums the unit counts of all courses a user is enrolled in.
func (s *Service) TotalUnitsForUser(ctx context.Context, userID string) (result.Result[int], error) {
	units, err := s.repo.TotalUnitsForUser(ctx, userID)
	if err != nil {
		return result.Result[int]{}, fmt.Errorf("total units for user: %w", err)
	}
	return result.Success(units), nil
}

// Delete removes an existing enrollment.
func (s *Service) Delete(ctx context.Context, id string) (result.Void, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return result.Fail(ErrEnrollmentNotFound), nil
		}
		return result.Void{}, fmt.Errorf("get enrollment: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return result.Fail(ErrEnrollmentNotFound), nil
		}
		return result.Void{}, fmt.Errorf("delete enrollment: %w", err)
	}

	return result.Done(), nil
}

func projectEnrollment(e *domain.Enrollment) Enrollment {
	return Enrollment{
		ID:             e.ID,
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		EnrollmentDate: e.EnrollmentDate,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func projectEnrollments(list []domain.Enrollment) []Enrollment {
	projected := make([]Enrollment, 0, len(list))
	for i := range list {
		projected = append(projected, projectEnrollment(&list[i]))
	}
	return projected
}
