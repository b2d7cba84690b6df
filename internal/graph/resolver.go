package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/api/metrics"
	"github.com/libris/library-api/internal/core/domain"
	"github.com/libris/library-api/internal/core/ports"
)

// Resolver is the root resolver covering Query, Mutation, and Subscription.
// It holds no state of its own; all collaborators are injected.
type Resolver struct {
	catalog  ports.CatalogService
	auth     ports.AuthService
	notifier ports.BookNotifier
	log      zerolog.Logger
}

func NewResolver(catalog ports.CatalogService, auth ports.AuthService, notifier ports.BookNotifier, log zerolog.Logger) *Resolver {
	return &Resolver{catalog: catalog, auth: auth, notifier: notifier, log: log}
}

// ── Queries ──────────────────────────────────────────────────────────────

func (r *Resolver) BookCount(ctx context.Context) (int32, error) {
	n, err := r.catalog.BookCount(ctx)
	return int32(n), err
}

func (r *Resolver) AuthorCount(ctx context.Context) (int32, error) {
	n, err := r.catalog.AuthorCount(ctx)
	return int32(n), err
}

func (r *Resolver) AllBooks(ctx context.Context, args struct{ Genre, Author *string }) ([]*BookResolver, error) {
	filter := ports.BookFilter{}
	if args.Genre != nil {
		filter.Genre = *args.Genre
	}
	if args.Author != nil {
		filter.Author = *args.Author
	}

	books, err := r.catalog.AllBooks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return bookResolvers(books), nil
}

func (r *Resolver) AllAuthors(ctx context.Context) ([]*AuthorResolver, error) {
	authors, err := r.catalog.AllAuthors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*AuthorResolver, 0, len(authors))
	for _, a := range authors {
		count := int32(a.BookCount)
		out = append(out, &AuthorResolver{author: a.Author, bookCount: &count})
	}
	return out, nil
}

// Me returns the caller's identity, or null for anonymous requests. It
// never errors.
func (r *Resolver) Me(ctx context.Context) *UserResolver {
	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	return &UserResolver{user: user}
}

// ── Mutations ────────────────────────────────────────────────────────────

// AddBook inserts a book under the named author (created on first
// reference), publishes the book to subscribers, and returns the whole book
// collection.
func (r *Resolver) AddBook(ctx context.Context, args struct {
	Title     string
	Author    string
	Published int32
	Genres    []string
}) ([]*BookResolver, error) {
	if domain.UserFromContext(ctx) == nil {
		return nil, errUnauthorized()
	}

	all, created, err := r.catalog.AddBook(ctx, ports.AddBookInput{
		Title:     args.Title,
		Author:    args.Author,
		Published: int(args.Published),
		Genres:    args.Genres,
	})
	switch {
	case errors.Is(err, domain.ErrAuthorNameTooShort):
		return nil, errBadUserInput("Author name must be a minimum of 4 characters long", args.Author)
	case errors.Is(err, domain.ErrTitleTooShort):
		return nil, errBadUserInput("Book title must be a minimum of 4 characters long", args.Title)
	case err != nil:
		return nil, err
	}

	metrics.BooksAddedTotal.Inc()

	// The book is already persisted; a notifier failure only costs live
	// listeners the push event.
	if err := r.notifier.Publish(ctx, created); err != nil {
		r.log.Error().Err(err).Str("title", created.Title).Msg("publish book event failed")
	}

	return bookResolvers(all), nil
}

func (r *Resolver) EditAuthor(ctx context.Context, args struct {
	Name      string
	SetBornTo int32
}) (*AuthorResolver, error) {
	if domain.UserFromContext(ctx) == nil {
		return nil, errUnauthorized()
	}

	author, err := r.catalog.EditAuthor(ctx, args.Name, int(args.SetBornTo))
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, nil
	}
	return &AuthorResolver{author: author}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct {
	Username      string
	FavoriteGenre string
}) (*UserResolver, error) {
	user, err := r.auth.CreateUser(ctx, args.Username, args.FavoriteGenre)
	switch {
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrUsernameTooShort):
		return nil, errBadUserInput("username already in use", args.Username)
	case err != nil:
		return nil, err
	}
	return &UserResolver{user: user}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Username string
	Password string
}) (*TokenResolver, error) {
	token, err := r.auth.Login(ctx, args.Username, args.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return nil, errBadUserInput("wrong username or password", []string{args.Username, args.Password})
	}
	if err != nil {
		return nil, err
	}
	return &TokenResolver{value: token}, nil
}

// ClearDB deletes every book. Authors and users survive. Destructive, so it
// requires an authenticated caller like the other mutations.
func (r *Resolver) ClearDB(ctx context.Context) (*string, error) {
	if domain.UserFromContext(ctx) == nil {
		return nil, errUnauthorized()
	}

	if err := r.catalog.ClearBooks(ctx); err != nil {
		return nil, err
	}
	msg := "cleared"
	return &msg, nil
}

// ── Subscriptions ────────────────────────────────────────────────────────

// BookAdded streams every book added after the subscription was opened. The
// stream ends when the transport cancels ctx.
func (r *Resolver) BookAdded(ctx context.Context) <-chan *BookResolver {
	out := make(chan *BookResolver)

	books, err := r.notifier.Subscribe(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("book subscription failed")
		close(out)
		return out
	}

	go func() {
		defer close(out)
		for book := range books {
			select {
			case out <- &BookResolver{book: book}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// ── Type resolvers ───────────────────────────────────────────────────────

type BookResolver struct {
	book *domain.Book
}

func (r *BookResolver) ID() graphql.ID   { return graphql.ID(r.book.ID) }
func (r *BookResolver) Title() string    { return r.book.Title }
func (r *BookResolver) Published() int32 { return int32(r.book.Published) }
func (r *BookResolver) Genres() []string { return r.book.Genres }

// Author is non-null in the schema; population is guaranteed before a book
// reaches the resolver layer.
func (r *BookResolver) Author() *AuthorResolver {
	return &AuthorResolver{author: r.book.Author}
}

func bookResolvers(books []*domain.Book) []*BookResolver {
	out := make([]*BookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &BookResolver{book: b})
	}
	return out
}

// AuthorResolver exposes an author; bookCount is only set on the allAuthors
// path, everywhere else it resolves to null.
type AuthorResolver struct {
	author    *domain.Author
	bookCount *int32
}

func (r *AuthorResolver) ID() graphql.ID   { return graphql.ID(r.author.ID) }
func (r *AuthorResolver) Name() string     { return r.author.Name }
func (r *AuthorResolver) BookCount() *int32 { return r.bookCount }

func (r *AuthorResolver) Born() *int32 {
	if r.author.Born == nil {
		return nil
	}
	born := int32(*r.author.Born)
	return &born
}

type UserResolver struct {
	user *domain.User
}

func (r *UserResolver) ID() graphql.ID       { return graphql.ID(r.user.ID) }
func (r *UserResolver) Username() string     { return r.user.Username }
func (r *UserResolver) FavoriteGenre() string { return r.user.FavoriteGenre }

type TokenResolver struct {
	value string
}

func (r *TokenResolver) Value() string { return r.value }
