// Package memory provides an in-process implementation of the repository
// interfaces, used for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
)

// Store keeps blogs and users in maps guarded by a single RWMutex.
type Store struct {
	mu    sync.RWMutex
	blogs map[string]model.Blog
	users map[string]model.User
}

// New creates an empty store.
func New() *Store {
	return &Store{
		blogs: make(map[string]model.Blog),
		users: make(map[string]model.User),
	}
}

// Blogs returns the blog repository.
func (s *Store) Blogs() repository.BlogRepository { return blogRepo{s} }

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

// sortedByID returns values ordered by ULID, which is creation order.
func sortedByID[T any](m map[string]T, keep func(T) bool) []T {
	ids := make([]string, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type blogRepo struct{ s *Store }

func (r blogRepo) List(_ context.Context) ([]model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedByID(r.s.blogs, nil), nil
}

func (r blogRepo) ListByOwners(_ context.Context, ownerIDs []string) ([]model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedByID(r.s.blogs, func(b model.Blog) bool {
		return b.HasOwner() && slices.Contains(ownerIDs, b.OwnerID)
	}), nil
}

func (r blogRepo) Get(_ context.Context, id string) (*model.Blog, error) {
	if err := repository.CheckID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.blogs[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	return &b, nil
}

func (r blogRepo) Create(_ context.Context, blog *model.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.blogs[blog.ID] = *blog
	return nil
}

func (r blogRepo) Update(_ context.Context, blog *model.Blog) error {
	if err := repository.CheckID(blog.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.blogs[blog.ID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	existing.Title = blog.Title
	existing.Author = blog.Author
	existing.URL = blog.URL
	existing.Likes = blog.Likes
	existing.UpdatedAt = blog.UpdatedAt
	r.s.blogs[blog.ID] = existing

	*blog = existing
	return nil
}

func (r blogRepo) Delete(_ context.Context, id string) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.blogs[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(r.s.blogs, id)
	return nil
}

func (r blogRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, b := range r.s.blogs {
		if b.OwnedBy(ownerID) {
			delete(r.s.blogs, id)
			n++
		}
	}
	return n, nil
}

type userRepo struct{ s *Store }

func (r userRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedByID(r.s.users, nil), nil
}

func (r userRepo) Get(_ context.Context, id string) (*model.User, error) {
	if err := repository.CheckID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetMany(_ context.Context, ids []string) ([]model.User, error) {
	if err := repository.CheckIDs(ids); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedByID(r.s.users, func(u model.User) bool {
		return slices.Contains(ids, u.ID)
	}), nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}
