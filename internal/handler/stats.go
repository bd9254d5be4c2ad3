package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bloglist/bloglist/internal/handler/dto"
	"github.com/bloglist/bloglist/internal/service"
)

// BlogLister returns every post with its owner resolved.
type BlogLister interface {
	List(ctx context.Context) ([]service.BlogDetails, error)
}

// StatsHandler reports aggregate statistics over all posts.
type StatsHandler struct {
	blogs  BlogLister
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(blogs BlogLister, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{blogs: blogs, logger: logger}
}

// Summary handles GET /api/stats.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToStatsResponse(blogs))
}
