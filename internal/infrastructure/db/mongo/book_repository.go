package mongo

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/libris/library-api/internal/core/domain"
)

const booksCollection = "books"

// BookRepository implements ports.BookRepository using MongoDB.
type BookRepository struct {
	coll     *mongo.Collection
	validate *validator.Validate
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		coll:     db.Collection(booksCollection),
		validate: validator.New(),
	}
}

type bookDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title" validate:"min=4"`
	Published int                `bson:"published"`
	Genres    []string           `bson:"genres"`
	Author    primitive.ObjectID `bson:"author"`
}

func (d bookDoc) toDomain() *domain.Book {
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}
	return &domain.Book{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Published: d.Published,
		Genres:    genres,
		AuthorID:  d.Author.Hex(),
	}
}

// Insert persists a new book. The title minimum-length constraint lives
// here, at the persistence boundary.
func (r *BookRepository) Insert(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	authorID, err := primitive.ObjectIDFromHex(b.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("insert book: author id %q: %w", b.AuthorID, err)
	}

	doc := bookDoc{
		Title:     b.Title,
		Published: b.Published,
		Genres:    b.Genres,
		Author:    authorID,
	}
	if err := r.validate.Struct(doc); err != nil {
		return nil, domain.ErrTitleTooShort
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *BookRepository) All(ctx context.Context) ([]*domain.Book, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookRepository) ByAuthorID(ctx context.Context, authorID string) ([]*domain.Book, error) {
	id, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, fmt.Errorf("find books: author id %q: %w", authorID, err)
	}
	return r.find(ctx, bson.M{"author": id})
}

func (r *BookRepository) ByGenre(ctx context.Context, genre string) ([]*domain.Book, error) {
	// Matching a scalar against an array field selects documents whose
	// genre list contains the exact string.
	return r.find(ctx, bson.M{"genres": genre})
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]*domain.Book, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []*domain.Book{}
	for cursor.Next(ctx) {
		var doc bookDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// CountByAuthor groups the books collection by author identity in a single
// aggregation, so counts are always fresh.
func (r *BookRepository) CountByAuthor(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count books by author: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode author count: %w", err)
		}
		counts[row.ID.Hex()] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("count books by author: %w", err)
	}
	return counts, nil
}

func (r *BookRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete books: %w", err)
	}
	return nil
}
