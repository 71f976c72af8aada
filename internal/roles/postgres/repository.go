// Package postgres provides the PostgreSQL implementation of the roles repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushq/enrollhub/internal/domain"
	pgutil "github.com/campushq/enrollhub/internal/pkg/postgres"
	"github.com/campushq/enrollhub/internal/roles"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the roles.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new role.
func (r *Repository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		role.Name,
		role.Description,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)

	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return roles.ErrRoleAlreadyExists
		}
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// GetByID retrieves a role by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	return r.scanRole(r.db.QueryRow(ctx, query, id), "get role by id")
}

// GetByName retrieves a role by exact name match.
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE name = $1
	`
	return r.scanRole(r.db.QueryRow(ctx, query, name), "get role by name")
}

// List retrieves all roles ordered by name.
func (r *Repository) List(ctx context.Context) ([]domain.Role, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return collectRoles(rows, "list roles")
}

// ListMembers retrieves the users that hold a role through the membership
// join table.
func (r *Repository) ListMembers(ctx context.Context, roleID string) ([]domain.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role_id = $1
		ORDER BY u.last_name, u.first_name
	`
	rows, err := r.db.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, fmt.Errorf("scan role member: %w", err)
		}
		members = append(members, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role members: %w", err)
	}
	return members, nil
}

// ListByUser retrieves all roles a user holds through the membership join table.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles by user: %w", err)
	}
	return collectRoles(rows, "list roles by user")
}

// Update overwrites an existing role.
func (r *Repository) Update(ctx context.Context, role *domain.Role) error {
	query := `
		UPDATE roles
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		role.ID,
		role.Name,
		role.Description,
	).Scan(&role.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roles.ErrRoleNotFound
		}
		if pgutil.IsUniqueViolation(err) {
			return roles.ErrRoleAlreadyExists
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Delete removes a role by its id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return roles.ErrRoleNotFound
	}
	return nil
}

// ExistsByName reports whether any role has the given name. The match is
// case-sensitive.
func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role name exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) scanRole(row pgx.Row, op string) (*domain.Role, error) {
	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roles.ErrRoleNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &role, nil
}

func collectRoles(rows pgx.Rows, op string) ([]domain.Role, error) {
	defer rows.Close()

	list := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan role: %w", op, err)
		}
		list = append(list, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate roles: %w", op, err)
	}
	return list, nil
}
