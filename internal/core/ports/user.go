package ports

import (
	"context"

	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/google/uuid"
)

// UserRepository defines persistence for user records
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService defines profile operations for authenticated users
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error)
}
