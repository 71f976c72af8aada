// Package postgres provides the PostgreSQL implementation of the enrollments repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/enrollments"
	pgutil "github.com/campushq/enrollhub/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the enrollments.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new enrollment. A unique constraint on (user_id, course_id)
// guards the pair against concurrent duplicate inserts.
func (r *Repository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, enrollment_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.EnrollmentDate,
	).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)

	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return enrollments.ErrAlreadyEnrolled
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// GetByID retrieves an enrollment by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrollment_date, created_at, updated_at
		FROM enrollments
		WHERE id = $1
	`
	var e domain.Enrollment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.EnrollmentDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, enrollments.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("get enrollment by id: %w", err)
	}
	return &e, nil
}

// List retrieves all enrollments ordered by enrollment date.
func (r *Repository) List(ctx context.Context) ([]domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrollment_date, created_at, updated_at
		FROM enrollments
		ORDER BY enrollment_date
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return collectEnrollments(rows)
}

// ListByUser retrieves all enrollments for a given user.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrollment_date, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrollment_date
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments by user: %w", err)
	}
	return collectEnrollments(rows)
}

// ListByCourse retrieves all enrollments for a given course.
func (r *Repository) ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrollment_date, created_at, updated_at
		FROM enrollments
		WHERE course_id = $1
		ORDER BY enrollment_date
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments by course: %w", err)
	}
	return collectEnrollments(rows)
}

// Delete removes an enrollment by its id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return enrollments.ErrEnrollmentNotFound
	}
	return nil
}

// ExistsByUserAndCourse reports whether an enrollment exists for the pair.
func (r *Repository) ExistsByUserAndCourse(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment pair exists: %w", err)
	}
	return exists, nil
}

// TotalUnitsForUser sums the units of all courses the user is enrolled in.
func (r *Repository) TotalUnitsForUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(c.units), 0)
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
	`
	var units int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&units); err != nil {
		return 0, fmt.Errorf("total units for user: %w", err)
	}
	return units, nil
}

func collectEnrollments(rows pgx.Rows) ([]domain.Enrollment, error) {
	defer rows.Close()

	list := make([]domain.Enrollment, 0)
	for rows.Next() {
		var e domain.Enrollment
		err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrollmentDate, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return list, nil
}
