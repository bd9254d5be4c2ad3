// Package repository defines the persistence contracts for blogs and users.
//
// Implementations live in the mongo, postgres and memory subpackages. All of
// them identify records by ULID strings and report failures with the sentinel
// errors declared here.
package repository

import (
	"context"
	"errors"

	"github.com/bloglist/bloglist/internal/model"
)

// Common errors for repository operations.
var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrInvalidID     = errors.New("malformatted id")
)

// BlogRepository persists blog posts.
type BlogRepository interface {
	// List returns every post in creation order.
	List(ctx context.Context) ([]model.Blog, error)
	// ListByOwners returns the posts owned by any of the given users, in creation order.
	ListByOwners(ctx context.Context, ownerIDs []string) ([]model.Blog, error)
	Get(ctx context.Context, id string) (*model.Blog, error)
	Create(ctx context.Context, blog *model.Blog) error
	// Update replaces title, author, url, likes and updated_at. The owner is never changed.
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
	// DeleteByOwner removes every post owned by ownerID and reports how many were removed.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// UserRepository persists user accounts. Usernames are unique.
type UserRepository interface {
	// List returns every user in creation order.
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	// GetMany returns the users matching ids. Unknown ids are skipped.
	GetMany(ctx context.Context, ids []string) ([]model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Create fails with ErrUsernameTaken if the username is already in use.
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories backed by one database connection.
type Store interface {
	Blogs() BlogRepository
	Users() UserRepository
	// Ping checks database connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// CheckID returns ErrInvalidID unless id is a well-formed record id.
func CheckID(id string) error {
	if !model.ValidID(id) {
		return ErrInvalidID
	}
	return nil
}

// CheckIDs applies CheckID to every element.
func CheckIDs(ids []string) error {
	for _, id := range ids {
		if err := CheckID(id); err != nil {
			return err
		}
	}
	return nil
}
