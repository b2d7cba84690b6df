package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// AuthorRepository defines persistence operations for authors.
type AuthorRepository interface {
	// ByName looks up an author by exact name; domain.ErrAuthorNotFound
	// when no author has that name.
	ByName(ctx context.Context, name string) (*domain.Author, error)
	// ByIDs returns the authors with the given identities, keyed by identity.
	ByIDs(ctx context.Context, ids []string) (map[string]*domain.Author, error)
	All(ctx context.Context) ([]*domain.Author, error)
	// Insert persists a new author. The name minimum-length constraint is
	// enforced here (domain.ErrAuthorNameTooShort); a unique-index collision
	// on name returns domain.ErrAuthorExists so callers can retry the lookup.
	Insert(ctx context.Context, a *domain.Author) (*domain.Author, error)
	// SetBorn updates the birth year of the named author and returns the
	// updated record; domain.ErrAuthorNotFound when no author has that name.
	SetBorn(ctx context.Context, name string, born int) (*domain.Author, error)
	Count(ctx context.Context) (int64, error)
}
