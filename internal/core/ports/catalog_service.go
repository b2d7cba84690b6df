package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// BookFilter narrows an allBooks query. When both fields are set, Author
// takes precedence and Genre is ignored.
type BookFilter struct {
	Genre  string
	Author string
}

// AddBookInput carries the arguments of the addBook mutation.
type AddBookInput struct {
	Title     string
	Author    string
	Published int
	Genres    []string
}

// AuthorWithCount decorates an author with its freshly computed book count.
type AuthorWithCount struct {
	Author    *domain.Author
	BookCount int
}

// CatalogService defines use-case operations over books and authors.
type CatalogService interface {
	BookCount(ctx context.Context) (int64, error)
	AuthorCount(ctx context.Context) (int64, error)
	// AllBooks returns books matching filter, authors populated. An author
	// filter naming a nonexistent author yields an empty list, not an error.
	AllBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error)
	AllAuthors(ctx context.Context) ([]AuthorWithCount, error)
	// AddBook resolves or creates the author by name, inserts the book, and
	// returns the full book collection plus the created record.
	AddBook(ctx context.Context, input AddBookInput) (all []*domain.Book, created *domain.Book, err error)
	// EditAuthor sets the birth year of the named author. A nonexistent
	// name yields (nil, nil), not an error.
	EditAuthor(ctx context.Context, name string, born int) (*domain.Author, error)
	// ClearBooks deletes every book; authors and users are untouched.
	ClearBooks(ctx context.Context) error
}
