package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Insert persists a new user. Username constraints are enforced here:
	// domain.ErrUsernameTooShort below the minimum length,
	// domain.ErrUsernameTaken on a unique-index collision.
	Insert(ctx context.Context, u *domain.User) (*domain.User, error)
	ByUsername(ctx context.Context, username string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
}
