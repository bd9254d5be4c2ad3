package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
)

// BlogRepo implements repository.BlogRepository.
type BlogRepo struct {
	coll *mongo.Collection
}

// List returns every post in creation order.
func (r *BlogRepo) List(ctx context.Context) ([]model.Blog, error) {
	return r.find(ctx, bson.D{})
}

// ListByOwners returns posts owned by any of ownerIDs.
func (r *BlogRepo) ListByOwners(ctx context.Context, ownerIDs []string) ([]model.Blog, error) {
	if len(ownerIDs) == 0 {
		return []model.Blog{}, nil
	}
	return r.find(ctx, bson.D{{Key: "owner_id", Value: bson.D{{Key: "$in", Value: ownerIDs}}}})
}

func (r *BlogRepo) find(ctx context.Context, filter bson.D) ([]model.Blog, error) {
	cursor, err := r.coll.Find(ctx, filter, byCreation)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	var docs []blogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode blogs: %w", err)
	}

	blogs := make([]model.Blog, 0, len(docs))
	for i := range docs {
		blogs = append(blogs, docs[i].toModel())
	}
	return blogs, nil
}

// Get retrieves a post by id.
func (r *BlogRepo) Get(ctx context.Context, id string) (*model.Blog, error) {
	if err := repository.CheckID(id); err != nil {
		return nil, err
	}

	var doc blogDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	blog := doc.toModel()
	return &blog, nil
}

// Create inserts a new post.
func (r *BlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	if _, err := r.coll.InsertOne(ctx, newBlogDocument(blog)); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// Update replaces the mutable fields and reloads blog from the stored document.
func (r *BlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	if err := repository.CheckID(blog.ID); err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: blog.Title},
		{Key: "author", Value: blog.Author},
		{Key: "url", Value: blog.URL},
		{Key: "likes", Value: blog.Likes},
		{Key: "updated_at", Value: blog.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc blogDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: blog.ID}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrBlogNotFound
		}
		return fmt.Errorf("failed to update blog: %w", err)
	}

	*blog = doc.toModel()
	return nil
}

// Delete removes a post.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrBlogNotFound
	}
	return nil
}

// DeleteByOwner removes every post owned by ownerID.
func (r *BlogRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete blogs by owner: %w", err)
	}
	return res.DeletedCount, nil
}
