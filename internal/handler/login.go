package handler

import (
	"log/slog"
	"net/http"

	"github.com/bloglist/bloglist/internal/handler/dto"
	"github.com/bloglist/bloglist/internal/middleware"
	"github.com/bloglist/bloglist/internal/service"
)

// LoginHandler exchanges credentials for a token.
type LoginHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(svc *service.AuthService, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		svc:    svc,
		logger: logger,
	}
}

// Login handles POST /api/login.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login failed",
			slog.String("ip", r.RemoteAddr),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:    result.Token,
		Username: result.Username,
		Name:     result.Name,
	})
}
