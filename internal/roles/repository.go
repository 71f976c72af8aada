package roles

import (
	"context"

	"github.com/campushq/enrollhub/internal/domain"
)

// Repository defines the data access contract for roles.
type Repository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	// ListMembers returns the users holding the role through the membership
	// join table.
	ListMembers(ctx context.Context, roleID string) ([]domain.User, error)
	// ListByUser returns all roles a user holds.
	ListByUser(ctx context.Context, userID string) ([]domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}
