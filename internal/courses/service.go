// Package courses provides the course catalog: CRUD over courses keyed by a
// unique course code, with business failures reported as Results.
package courses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/pkg/result"
)

// Course is the transport-facing projection of a course.
type Course struct {
	ID         string    `json:"id"`
	CourseCode string    `json:"course_code"`
	Title      string    `json:"title"`
	Units      int       `json:"units"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCourseInput holds data for creating a course.
type CreateCourseInput struct {
	CourseCode string
	Title      string
	Units      int
}

// UpdateCourseInput holds data for updating a course. All mutable fields are
// overwritten; this is a full replacement, not a patch.
type UpdateCourseInput struct {
	ID         string
	CourseCode string
	Title      string
	Units      int
}

// Service implements course business logic.
type Service struct {
	repo Repository
}

// NewService creates a new course service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a course after gating on course code uniqueness. The store's
// unique constraint backstops the check under concurrent requests; a conflict
// there surfaces as the same failure.
func (s *Service) Create(ctx context.Context, in CreateCourseInput) (result.Result[Course], error) {
	exists, err := s.repo.ExistsByCode(ctx, in.CourseCode)
	if err != nil {
		return result.Result[Course]{}, fmt.Errorf("check course code: %w", err)
	}
	if exists {
		return result.Failure[Course](ErrCourseAlreadyExists), nil
	}

	course := &domain.Course{
		CourseCode: in.CourseCode,
		Title:      in.Title,
		Units:      in.Units,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, ErrCourseAlreadyExists) {
			return result.Failure[Course](ErrCourseAlreadyExists), nil
		}
		return result.Result[Course]{}, fmt.Errorf("create course: %w", err)
	}

	return result.Success(projectCourse(course)), nil
}

// GetByID retrieves a course by id.
func (s *Service) GetByID(ctx context.Context, id string) (result.Result[Course], error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return result.Failure[Course](ErrCourseNotFound), nil
		}
		return result.Result[Course]{}, fmt.Errorf("get course: %w", err)
	}

	return result.Success(projectCourse(course)), nil
}

// GetByCode retrieves a course by its course code.
func (s *Service) GetByCode(ctx context.Context, courseCode string) (result.Result[Course], error) {
	course, err := s.repo.GetByCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return result.Failure[Course](ErrCourseNotFound), nil
		}
		return result.Result[Course]{}, fmt.Errorf("get course by code: %w", err)
	}

	return result.Success(projectCourse(course)), nil
}

// List returns all courses. An empty catalog is a success with an empty slice.
func (s *Service) List(ctx context.Context) (result.Result[[]Course], error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return result.Result[[]Course]{}, fmt.Errorf("list courses: %w", err)
	}

	projected := make([]Course, 0, len(list))
	for i := range list {
		projected = append(projected, projectCourse(&list[i]))
	}
	return result.Success(projected), nil
}

// Update overwrites all mutable fields of an existing course.
func (s *Service) Update(ctx context.Context, in UpdateCourseInput) (result.Result[Course], error) {
	course, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return result.Failure[Course](ErrCourseNotFound), nil
		}
		return result.Result[Course]{}, fmt.Errorf("get course: %w", err)
	}

	course.CourseCode = in.CourseCode
	course.Title = in.Title
	course.Units = in.Units

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, ErrCourseAlreadyExists) {
			return result.Failure[Course](ErrCourseAlreadyExists), nil
		}
		return result.Result[Course]{}, fmt.Errorf("update course: %w", err)
	}

	return result.Success(projectCourse(course)), nil
}

// Delete removes an existing course.
func (s *Service) Delete(ctx context.Context, id string) (result.Void, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return result.Fail(ErrCourseNotFound), nil
		}
		return result.Void{}, fmt.Errorf("get course: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return result.Fail(ErrCourseNotFound), nil
		}
		return result.Void{}, fmt.Errorf("delete course: %w", err)
	}

	return result.Done(), nil
}

func projectCourse(c *domain.Course) Course {
	return Course{
		ID:         c.ID,
		CourseCode: c.CourseCode,
		Title:      c.Title,
		Units:      c.Units,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
