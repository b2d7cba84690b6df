package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/libris/library-api/internal/core/domain"
)

const authorsCollection = "authors"

// AuthorRepository implements ports.AuthorRepository using MongoDB. A unique
// index on name backs author deduplication; concurrent inserts of the same
// name surface as domain.ErrAuthorExists rather than silent duplicates.
type AuthorRepository struct {
	coll     *mongo.Collection
	validate *validator.Validate
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{
		coll:     db.Collection(authorsCollection),
		validate: validator.New(),
	}
}

type authorDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name" validate:"min=4"`
	Born *int               `bson:"born,omitempty"`
}

func (d authorDoc) toDomain() *domain.Author {
	return &domain.Author{ID: d.ID.Hex(), Name: d.Name, Born: d.Born}
}

func (r *AuthorRepository) ByName(ctx context.Context, name string) (*domain.Author, error) {
	var doc authorDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthorRepository) ByIDs(ctx context.Context, ids []string) (map[string]*domain.Author, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("find authors: id %q: %w", id, err)
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	defer cursor.Close(ctx)

	authors := make(map[string]*domain.Author, len(ids))
	for cursor.Next(ctx) {
		var doc authorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		authors[doc.ID.Hex()] = doc.toDomain()
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	return authors, nil
}

func (r *AuthorRepository) All(ctx context.Context) ([]*domain.Author, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	defer cursor.Close(ctx)

	authors := []*domain.Author{}
	for cursor.Next(ctx) {
		var doc authorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		authors = append(authors, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	return authors, nil
}

func (r *AuthorRepository) Insert(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	doc := authorDoc{Name: a.Name, Born: a.Born}
	if err := r.validate.Struct(doc); err != nil {
		return nil, domain.ErrAuthorNameTooShort
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AuthorRepository) SetBorn(ctx context.Context, name string, born int) (*domain.Author, error) {
	var doc authorDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"born": born}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("update author: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique name index that makes author
// deduplication safe under concurrent addBook calls.
func (r *AuthorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
