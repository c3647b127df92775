package identity

import (
	"context"

	"github.com/userhub/userhub-go/internal/domain"
)

// Repository defines the interface for user persistence.
// Implementations must treat email as the natural unique key and surface a
// duplicate insert as ErrEmailExists.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}
