// Package service provides business logic for the application.
package service

import (
	"errors"

	"github.com/bloglist/bloglist/internal/apperr"
	"github.com/bloglist/bloglist/internal/repository"
)

// Service errors.
var (
	ErrBlogNotFound       = apperr.NotFound("blog not found")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrMalformattedID     = apperr.Validation("malformatted id")
	ErrLikesRequired      = apperr.Validation("likes is required")
	ErrCreatorNotFound    = apperr.Validation("creator does not exist")
	ErrNotOwner           = apperr.Forbidden("only the creator can delete a blog")
	ErrCredentialsMissing = apperr.Validation("Username or Password missing")
	ErrPasswordTooShort   = apperr.Validation("Password too short. min length is 3")
	ErrUsernameTooShort   = apperr.Validation("Username too short. min length is 3")
	ErrUsernameTaken      = apperr.Conflict("username must be unique")
	ErrLoginFieldsMissing = apperr.Validation("username and password are required")
	ErrInvalidCredentials = apperr.Unauthorized("invalid username or password")
)

// MinUsernameLength is the minimum number of characters in a username.
const MinUsernameLength = 3

// translate maps repository errors to service errors. notFound is returned
// for the repository's not-found sentinels.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInvalidID):
		return ErrMalformattedID
	case errors.Is(err, repository.ErrBlogNotFound), errors.Is(err, repository.ErrUserNotFound):
		return notFound
	case errors.Is(err, repository.ErrUsernameTaken):
		return ErrUsernameTaken
	default:
		return err
	}
}
