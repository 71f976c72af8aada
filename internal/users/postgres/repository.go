// Package postgres provides the PostgreSQL implementation of the users repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushq/enrollhub/internal/domain"
	pgutil "github.com/campushq/enrollhub/internal/pkg/postgres"
	"github.com/campushq/enrollhub/internal/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the users.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, phone_number,
	birth_date, role_id, failed_login_attempts, locked_until, created_at, updated_at`

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, phone_number, birth_date, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.BirthDate,
		user.RoleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return users.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id), "get user by id")
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email), "get user by email")
}

// List retrieves all users ordered by last name.
func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	list := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return list, nil
}

// ListEnrolledCourses retrieves the user's enrollments joined with their courses.
func (r *Repository) ListEnrolledCourses(ctx context.Context, userID string) ([]users.EnrolledCourse, error) {
	query := `
		SELECT e.id, c.id, c.course_code, c.title, c.units, e.enrollment_date
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrollment_date
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	defer rows.Close()

	list := make([]users.EnrolledCourse, 0)
	for rows.Next() {
		var ec users.EnrolledCourse
		err := rows.Scan(&ec.EnrollmentID, &ec.CourseID, &ec.CourseCode, &ec.Title, &ec.Units, &ec.EnrollmentDate)
		if err != nil {
			return nil, fmt.Errorf("scan enrolled course: %w", err)
		}
		list = append(list, ec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrolled courses: %w", err)
	}
	return list, nil
}

// Update overwrites an existing user's profile fields.
func (r *Repository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
			birth_date = $6, role_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PhoneNumber,
		user.BirthDate,
		user.RoleID,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.ErrUserNotFound
		}
		if pgutil.IsUniqueViolation(err) {
			return users.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user by its id. Enrollments and role memberships cascade
// at the store level.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// EmailExists reports whether any user has the given email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// AddToRole adds the user to the role's membership and makes it the user's
// primary role in a single transaction.
func (r *Repository) AddToRole(ctx context.Context, userID, roleID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add to role: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleID)
	if err != nil {
		return fmt.Errorf("add role membership: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET role_id = $2, updated_at = NOW() WHERE id = $1
	`, userID, roleID)
	if err != nil {
		return fmt.Errorf("set primary role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit add to role: %w", err)
	}
	return nil
}

func (r *Repository) scanUser(row pgx.Row, op string) (*domain.User, error) {
	var u domain.User
	if err := scanUserRow(row, &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.PhoneNumber,
		&u.BirthDate,
		&u.RoleID,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}
