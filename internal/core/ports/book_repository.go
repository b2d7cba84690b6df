package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// BookRepository defines persistence operations for books. Books reference
// authors by identity only; population happens in the service layer.
type BookRepository interface {
	// Insert persists a new book. The title minimum-length constraint is
	// enforced here; violations return domain.ErrTitleTooShort.
	Insert(ctx context.Context, b *domain.Book) (*domain.Book, error)
	All(ctx context.Context) ([]*domain.Book, error)
	ByAuthorID(ctx context.Context, authorID string) ([]*domain.Book, error)
	// ByGenre returns books whose genre list contains the exact genre string.
	ByGenre(ctx context.Context, genre string) ([]*domain.Book, error)
	Count(ctx context.Context) (int64, error)
	// CountByAuthor returns the number of books per author identity,
	// recomputed on every call.
	CountByAuthor(ctx context.Context) (map[string]int64, error)
	DeleteAll(ctx context.Context) error
}
