package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/core/domain"
	"github.com/libris/library-api/internal/core/ports"
)

type catalogService struct {
	books   ports.BookRepository
	authors ports.AuthorRepository
	log     zerolog.Logger
}

// NewCatalogService returns a CatalogService over the given repositories.
func NewCatalogService(books ports.BookRepository, authors ports.AuthorRepository, log zerolog.Logger) ports.CatalogService {
	return &catalogService{books: books, authors: authors, log: log}
}

func (s *catalogService) BookCount(ctx context.Context) (int64, error) {
	return s.books.Count(ctx)
}

func (s *catalogService) AuthorCount(ctx context.Context) (int64, error) {
	return s.authors.Count(ctx)
}

// AllBooks applies at most one filter: author wins over genre when both are
// supplied. A nonexistent author name yields an empty list.
func (s *catalogService) AllBooks(ctx context.Context, filter ports.BookFilter) ([]*domain.Book, error) {
	var (
		books []*domain.Book
		err   error
	)

	switch {
	case filter.Author != "":
		author, lookupErr := s.authors.ByName(ctx, filter.Author)
		if errors.Is(lookupErr, domain.ErrAuthorNotFound) {
			return []*domain.Book{}, nil
		}
		if lookupErr != nil {
			return nil, lookupErr
		}
		books, err = s.books.ByAuthorID(ctx, author.ID)
	case filter.Genre != "":
		books, err = s.books.ByGenre(ctx, filter.Genre)
	default:
		books, err = s.books.All(ctx)
	}
	if err != nil {
		return nil, err
	}

	return s.populateAuthors(ctx, books)
}

// AllAuthors decorates every author with a book count recomputed on each
// call; counts are never cached across requests.
func (s *catalogService) AllAuthors(ctx context.Context) ([]ports.AuthorWithCount, error) {
	authors, err := s.authors.All(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.books.CountByAuthor(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ports.AuthorWithCount, 0, len(authors))
	for _, a := range authors {
		out = append(out, ports.AuthorWithCount{
			Author:    a,
			BookCount: int(counts[a.ID]),
		})
	}
	return out, nil
}

// AddBook resolves or creates the author, inserts the book, and returns the
// whole populated collection together with the created record. A lost race
// on author creation is absorbed by retrying the lookup after the unique
// index rejects the insert.
func (s *catalogService) AddBook(ctx context.Context, input ports.AddBookInput) ([]*domain.Book, *domain.Book, error) {
	author, err := s.authors.ByName(ctx, input.Author)
	if errors.Is(err, domain.ErrAuthorNotFound) {
		author, err = s.authors.Insert(ctx, &domain.Author{Name: input.Author})
		if errors.Is(err, domain.ErrAuthorExists) {
			author, err = s.authors.ByName(ctx, input.Author)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	created, err := s.books.Insert(ctx, &domain.Book{
		Title:     input.Title,
		Published: input.Published,
		Genres:    input.Genres,
		AuthorID:  author.ID,
	})
	if err != nil {
		return nil, nil, err
	}
	created.Author = author

	s.log.Info().Str("title", created.Title).Str("author", author.Name).Msg("book added")

	all, err := s.books.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list books after add: %w", err)
	}
	all, err = s.populateAuthors(ctx, all)
	if err != nil {
		return nil, nil, err
	}
	return all, created, nil
}

func (s *catalogService) EditAuthor(ctx context.Context, name string, born int) (*domain.Author, error) {
	author, err := s.authors.SetBorn(ctx, name, born)
	if errors.Is(err, domain.ErrAuthorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}

func (s *catalogService) ClearBooks(ctx context.Context) error {
	return s.books.DeleteAll(ctx)
}

// populateAuthors expands the author reference of every book with a single
// batched lookup. A dangling reference is a store-level inconsistency and
// surfaces as an error rather than an unpopulated book.
func (s *catalogService) populateAuthors(ctx context.Context, books []*domain.Book) ([]*domain.Book, error) {
	if len(books) == 0 {
		return books, nil
	}

	seen := make(map[string]struct{}, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.AuthorID]; !ok {
			seen[b.AuthorID] = struct{}{}
			ids = append(ids, b.AuthorID)
		}
	}

	authors, err := s.authors.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		author, ok := authors[b.AuthorID]
		if !ok {
			return nil, fmt.Errorf("book %q references unknown author %s", b.Title, b.AuthorID)
		}
		b.Author = author
	}
	return books, nil
}
