package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
)

// UserDetails is a user with summaries of the posts they own.
type UserDetails struct {
	model.User
	Blogs []model.BlogSummary
}

// CreateUserInput defines input for registering a user.
type CreateUserInput struct {
	Username string
	Name     string
	Password string
}

// UserService handles account business logic.
type UserService struct {
	users   repository.UserRepository
	blogs   repository.BlogRepository
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:   store.Users(),
		blogs:   store.Blogs(),
		metrics: recorder,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every user with their post summaries.
func (s *UserService) List(ctx context.Context) ([]UserDetails, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withBlogs(ctx, users)
}

// Get retrieves one user with their post summaries.
func (s *UserService) Get(ctx context.Context, id string) (*UserDetails, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	details, err := s.withBlogs(ctx, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Create registers a new user. The password is stored only as an Argon2id hash.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDetails, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrCredentialsMissing
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, ErrPasswordTooShort
	}
	if utf8.RuneCountInString(in.Username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return nil, ErrPasswordTooShort
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()
	return &UserDetails{User: *user, Blogs: []model.BlogSummary{}}, nil
}

// Delete removes a user and then, best effort, the posts they own.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return translate(err, ErrUserNotFound)
	}
	s.metrics.IncUserDeleted()

	n, err := s.blogs.DeleteByOwner(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete posts of removed user",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if n > 0 {
		s.logger.Info("deleted posts of removed user",
			slog.String("user_id", id),
			slog.Int64("count", n),
		)
	}
	return nil
}

// withBlogs attaches post summaries with one batched lookup.
func (s *UserService) withBlogs(ctx context.Context, users []model.User) ([]UserDetails, error) {
	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	byOwner := make(map[string][]model.BlogSummary, len(users))
	if len(ids) > 0 {
		blogs, err := s.blogs.ListByOwners(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load user blogs: %w", err)
		}
		for i := range blogs {
			byOwner[blogs[i].OwnerID] = append(byOwner[blogs[i].OwnerID], blogs[i].Summary())
		}
	}

	out := make([]UserDetails, len(users))
	for i := range users {
		out[i].User = users[i]
		out[i].Blogs = byOwner[users[i].ID]
		if out[i].Blogs == nil {
			out[i].Blogs = []model.BlogSummary{}
		}
	}
	return out, nil
}
