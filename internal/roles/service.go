// Package roles manages the role catalog and role membership. Role names are
// unique with a case-sensitive exact match; membership is held in a
// many-to-many join table so a user may hold several roles.
package roles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/pkg/result"
)

// Role is the transport-facing projection of a role.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is the projection of a user listed as a role member.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RoleWithMembers is a role together with the users holding it.
type RoleWithMembers struct {
	Role
	Members []Member `json:"members"`
}

// CreateRoleInput holds data for creating a role.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput holds data for updating a role.
type UpdateRoleInput struct {
	ID          string
	Name        string
	Description string
}

// Service implements role business logic.
type Service struct {
	repo Repository
}

// NewService creates a new role service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a role after gating on name uniqueness.
func (s *Service) Create(ctx context.Context, in CreateRoleInput) (result.Result[Role], error) {
	exists, err := s.repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return result.Result[Role]{}, fmt.Errorf("check role name: %w", err)
	}
	if exists {
		return result.Failure[Role](ErrRoleAlreadyExists), nil
	}

	role := &domain.Role{
		Name:        in.Name,
		Description: in.Description,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		if errors.Is(err, ErrRoleAlreadyExists) {
			return result.Failure[Role](ErrRoleAlreadyExists), nil
		}
		return result.Result[Role]{}, fmt.Errorf("create role: %w", err)
	}

	return result.Success(projectRole(role)), nil
}

// GetByID retrieves a role together with its member list.
func (s *Service) GetByID(ctx context.Context, id string) (result.Result[RoleWithMembers], error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return result.Failure[RoleWithMembers](ErrRoleNotFound), nil
		}
		return result.Result[RoleWithMembers]{}, fmt.Errorf("get role: %w", err)
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return result.Result[RoleWithMembers]{}, fmt.Errorf("list role members: %w", err)
	}

	projected := RoleWithMembers{
		Role:    projectRole(role),
		Members: make([]Member, 0, len(members)),
	}
	for i := range members {
		projected.Members = append(projected.Members, Member{
			ID:       members[i].ID,
			FullName: members[i].FullName(),
			Email:    members[i].Email,
		})
	}
	return result.Success(projected), nil
}

// GetByName retrieves a role by exact name match.
func (s *Service) GetByName(ctx context.Context, name string) (result.Result[Role], error) {
	role, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return result.Failure[Role](ErrRoleNotFound), nil
		}
		return result.Result[Role]{}, fmt.Errorf("get role by name: %w", err)
	}

	return result.Success(projectRole(role)), nil
}

// List returns all roles. An empty catalog is a success with an empty slice.
func (s *Service) List(ctx context.Context) (result.Result[[]Role], error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return result.Result[[]Role]{}, fmt.Errorf("list roles: %w", err)
	}
	return result.Success(projectRoles(list)), nil
}

// GetUserRoles returns all roles held by a user. A user with no roles is a
// success with an empty slice.
func (s *Service) GetUserRoles(ctx context.Context, userID string) (result.Result[[]Role], error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return result.Result[[]Role]{}, fmt.Errorf("list roles by user: %w", err)
	}
	return result.Success(projectRoles(list)), nil
}

// Update overwrites all mutable fields of an existing role.
func (s *Service) Update(ctx context.Context, in UpdateRoleInput) (result.Result[Role], error) {
	role, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return result.Failure[Role](ErrRoleNotFound), nil
		}
		return result.Result[Role]{}, fmt.Errorf("get role: %w", err)
	}

	role.Name = in.Name
	role.Description = in.Description

	if err := s.repo.Update(ctx, role); err != nil {
		if errors.Is(err, ErrRoleAlreadyExists) {
			return result.Failure[Role](ErrRoleAlreadyExists), nil
		}
		return result.Result[Role]{}, fmt.Errorf("update role: %w", err)
	}

	return result.Success(projectRole(role)), nil
}

// Delete removes an existing role.
func (s *Service) Delete(ctx context.Context, id string) (result.Void, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return result.Fail(ErrRoleNotFound), nil
		}
		return result.Void{}, fmt.Errorf("get role: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return result.Fail(ErrRoleNotFound), nil
		}
		return result.Void{}, fmt.Errorf("delete role: %w", err)
	}

	return result.Done(), nil
}

func projectRole(r *domain.Role) Role {
	return Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func projectRoles(list []domain.Role) []Role {
	projected := make([]Role, 0, len(list))
	for i := range list {
		projected = append(projected, projectRole(&list[i]))
	}
	return projected
}
