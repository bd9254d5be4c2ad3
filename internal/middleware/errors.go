package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/bloglist/bloglist/internal/apperr"
)

// errorBody mirrors the body written by the handlers.
type errorBody struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

// Errors written by the middleware chain itself.
var (
	errTokenMissing  = apperr.Unauthorized("token missing")
	errTokenInvalid  = apperr.Unauthorized("token invalid or expired")
	errTooManyLogins = apperr.RateLimited("too many login attempts")
	errInternal      = &apperr.Error{Code: apperr.CodeInternal, Message: "internal error"}
)

// writeError writes err as a JSON error response.
func writeError(w http.ResponseWriter, err *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Message, Code: err.Code})
}
