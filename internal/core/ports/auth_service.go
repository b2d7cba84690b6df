package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// AuthService issues credentials and derives request-scoped identity.
type AuthService interface {
	// Login verifies the username and password and returns a signed token.
	// Unknown usernames and wrong passwords both return
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, error)
	CreateUser(ctx context.Context, username, favoriteGenre string) (*domain.User, error)
	// Authenticate maps the raw Authorization header to a user. A missing
	// header or non-Bearer scheme is anonymous (nil, nil), as is a valid
	// token referencing a user that no longer exists. Verification failures
	// return domain.ErrInvalidToken.
	Authenticate(ctx context.Context, authorization string) (*domain.User, error)
}
