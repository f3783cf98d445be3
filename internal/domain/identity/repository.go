package identity

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository provides access to users.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Save(ctx context.Context, u *User) error
}
