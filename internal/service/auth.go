package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/repository"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string
	Username string
	Name     string
}

// AuthService exchanges credentials for access tokens.
type AuthService struct {
	users   repository.UserRepository
	tokens  *auth.TokenService
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.Store, tokens *auth.TokenService, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{users: store.Users(), tokens: tokens, metrics: recorder}
}

// Login verifies credentials and issues a token.
// Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrLoginFieldsMissing
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		auth.BurnVerification(password)
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLogin(true)
	return &LoginResult{Token: token, Username: user.Username, Name: user.Name}, nil
}
