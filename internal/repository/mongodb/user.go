package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	coll *mongo.Collection
}

// List returns every user in creation order.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.find(ctx, bson.D{})
}

// GetMany returns the users matching ids.
func (r *UserRepo) GetMany(ctx context.Context, ids []string) ([]model.User, error) {
	if err := repository.CheckIDs(ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

func (r *UserRepo) find(ctx context.Context, filter bson.D) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, filter, byCreation)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]model.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

// Get retrieves a user by id.
func (r *UserRepo) Get(ctx context.Context, id string) (*model.User, error) {
	if err := repository.CheckID(id); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user := doc.toModel()
	return &user, nil
}

// Create inserts a new user. The unique username index reports duplicates.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if _, err := r.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
