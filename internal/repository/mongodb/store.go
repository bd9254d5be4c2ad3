// Package mongodb implements the repository interfaces on MongoDB.
//
// Documents use the record's ULID string as _id, so no database-specific id
// type leaks into the domain model.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bloglist/bloglist/internal/repository"
)

const (
	blogsCollection = "blogs"
	usersCollection = "users"
)

// Store is a MongoDB-backed repository.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB, verifies connectivity and ensures indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	s, err := Dial(ctx, uri, database)
	if err != nil {
		return nil, err
	}

	if err := s.Ping(ctx); err != nil {
		_ = s.client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Dial creates a client without waiting for the server. Operations fail
// until MongoDB becomes reachable; callers should run EnsureIndexes later.
func Dial(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return New(client, database), nil
}

// New wraps an existing client. Callers should run EnsureIndexes.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// EnsureIndexes creates the unique username index and the owner lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.db.Collection(blogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetName("owner_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create blogs index: %w", err)
	}
	return nil
}

// Blogs returns the blog repository.
func (s *Store) Blogs() repository.BlogRepository {
	return &BlogRepo{coll: s.db.Collection(blogsCollection)}
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository {
	return &UserRepo{coll: s.db.Collection(usersCollection)}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// byCreation sorts by _id; ULIDs order by creation time.
var byCreation = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
