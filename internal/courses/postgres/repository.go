// Package postgres provides the PostgreSQL implementation of the courses repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushq/enrollhub/internal/courses"
	"github.com/campushq/enrollhub/internal/domain"
	pgutil "github.com/campushq/enrollhub/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the courses.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new course.
func (r *Repository) Create(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (course_code, title, units)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		course.CourseCode,
		course.Title,
		course.Units,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return courses.ErrCourseAlreadyExists
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, course_code, title, units, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	return r.scanCourse(r.db.QueryRow(ctx, query, id), "get course by id")
}

// GetByCode retrieves a course by its course code.
func (r *Repository) GetByCode(ctx context.Context, courseCode string) (*domain.Course, error) {
	query := `
		SELECT id, course_code, title, units, created_at, updated_at
		FROM courses
		WHERE course_code = $1
	`
	return r.scanCourse(r.db.QueryRow(ctx, query, courseCode), "get course by code")
}

// List retrieves all courses ordered by course code.
func (r *Repository) List(ctx context.Context) ([]domain.Course, error) {
	query := `
		SELECT id, course_code, title, units, created_at, updated_at
		FROM courses
		ORDER BY course_code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Course, 0)
	for rows.Next() {
		var c domain.Course
		err := rows.Scan(&c.ID, &c.CourseCode, &c.Title, &c.Units, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return list, nil
}

// Update overwrites an existing course.
func (r *Repository) Update(ctx context.Context, course *domain.Course) error {
	query := `
		UPDATE courses
		SET course_code = $2, title = $3, units = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		course.ID,
		course.CourseCode,
		course.Title,
		course.Units,
	).Scan(&course.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return courses.ErrCourseNotFound
		}
		if pgutil.IsUniqueViolation(err) {
			return courses.ErrCourseAlreadyExists
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course by its id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return courses.ErrCourseNotFound
	}
	return nil
}

// ExistsByCode reports whether any course has the given course code.
func (r *Repository) ExistsByCode(ctx context.Context, courseCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE course_code = $1)`,
		courseCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check course code exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) scanCourse(row pgx.Row, op string) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.CourseCode, &c.Title, &c.Units, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courses.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
