// Package apperr provides domain errors carrying a machine-readable code.
//
// Services return these; handlers translate them into HTTP responses with
// HTTPStatus so that status mapping lives in one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeTooLarge     Code = "PAYLOAD_TOO_LARGE"
	CodeInternal     Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code and a client-safe message.
type Error struct {
	Code    Code
	Message string
	cause   error
	generic bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is the code-level sentinel for e's code.
// Other *Error values match only by identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.generic && t.Code == e.Code
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is.
var (
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation error", generic: true}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized", generic: true}
	ErrForbidden    = &Error{Code: CodeForbidden, Message: "forbidden", generic: true}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found", generic: true}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict", generic: true}
	ErrTooLarge     = &Error{Code: CodeTooLarge, Message: "request body too large", generic: true}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}

// From extracts the domain error from err's chain.
// Errors that carry no domain code are reported as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeInternal, Message: "internal error", cause: err}
}

// HTTPStatus returns the HTTP status code for any error.
func HTTPStatus(err error) int {
	return From(err).Code.HTTPStatus()
}
