package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
	"github.com/bloglist/bloglist/internal/validation"
)

// BlogDetails is a post with its owner resolved.
// Owner is nil for ownerless posts and posts whose owner no longer exists.
type BlogDetails struct {
	model.Blog
	Owner *model.UserRef
}

// BlogInput carries the client-supplied fields of a post.
// Likes is a pointer so an omitted value can be told apart from zero.
type BlogInput struct {
	Title  string `json:"title" validate:"notblank"`
	Author string `json:"author" validate:"notblank"`
	URL    string `json:"url" validate:"notblank"`
	Likes  *int   `json:"likes" validate:"omitempty,gte=0"`
}

func (in BlogInput) likes() int {
	if in.Likes == nil {
		return 0
	}
	return *in.Likes
}

// BlogService handles blog business logic.
type BlogService struct {
	blogs     repository.BlogRepository
	users     repository.UserRepository
	validator *validation.Validator
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(store repository.Store, v *validation.Validator, recorder metrics.Recorder) *BlogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if v == nil {
		v = validation.New()
	}
	return &BlogService{
		blogs:     store.Blogs(),
		users:     store.Users(),
		validator: v,
		metrics:   recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every post with owners resolved, in creation order.
func (s *BlogService) List(ctx context.Context) ([]BlogDetails, error) {
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withOwners(ctx, blogs)
}

// Get retrieves one post with its owner resolved.
func (s *BlogService) Get(ctx context.Context, id string) (*BlogDetails, error) {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return nil, translate(err, ErrBlogNotFound)
	}
	details, err := s.withOwners(ctx, []model.Blog{*blog})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Create stores a new post owned by callerID.
func (s *BlogService) Create(ctx context.Context, in BlogInput, callerID string) (*BlogDetails, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	owner, err := s.users.Get(ctx, callerID)
	if err != nil {
		return nil, translate(err, ErrCreatorNotFound)
	}

	now := s.now()
	blog := &model.Blog{
		ID:        model.NewID(),
		Title:     strings.TrimSpace(in.Title),
		Author:    strings.TrimSpace(in.Author),
		URL:       strings.TrimSpace(in.URL),
		Likes:     in.likes(),
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.metrics.IncBlogCreated()

	ref := owner.Ref()
	return &BlogDetails{Blog: *blog, Owner: &ref}, nil
}

// Update replaces title, author, url and likes of a post. Likes must be present.
func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*BlogDetails, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.Likes == nil {
		return nil, ErrLikesRequired
	}

	blog := &model.Blog{
		ID:        id,
		Title:     strings.TrimSpace(in.Title),
		Author:    strings.TrimSpace(in.Author),
		URL:       strings.TrimSpace(in.URL),
		Likes:     *in.Likes,
		UpdatedAt: s.now(),
	}
	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, translate(err, ErrBlogNotFound)
	}

	s.metrics.IncBlogUpdated()

	details, err := s.withOwners(ctx, []model.Blog{*blog})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Delete removes a post. Only the owner may delete an owned post;
// any authenticated caller may delete an ownerless one.
func (s *BlogService) Delete(ctx context.Context, id, callerID string) error {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return translate(err, ErrBlogNotFound)
	}

	if blog.HasOwner() && !blog.OwnedBy(callerID) {
		return ErrNotOwner
	}

	if err := s.blogs.Delete(ctx, id); err != nil {
		return translate(err, ErrBlogNotFound)
	}

	s.metrics.IncBlogDeleted()
	return nil
}

// withOwners resolves owners with one batched lookup.
func (s *BlogService) withOwners(ctx context.Context, blogs []model.Blog) ([]BlogDetails, error) {
	seen := make(map[string]bool)
	var ownerIDs []string
	for i := range blogs {
		if id := blogs[i].OwnerID; id != "" && !seen[id] {
			seen[id] = true
			ownerIDs = append(ownerIDs, id)
		}
	}

	owners := make(map[string]model.UserRef, len(ownerIDs))
	if len(ownerIDs) > 0 {
		users, err := s.users.GetMany(ctx, ownerIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve blog owners: %w", err)
		}
		for i := range users {
			owners[users[i].ID] = users[i].Ref()
		}
	}

	out := make([]BlogDetails, len(blogs))
	for i := range blogs {
		out[i].Blog = blogs[i]
		if ref, ok := owners[blogs[i].OwnerID]; ok {
			out[i].Owner = &ref
		}
	}
	return out, nil
}
