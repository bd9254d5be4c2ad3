package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/handler/dto"
	"github.com/bloglist/bloglist/internal/service"
)

// BlogHandler handles HTTP requests for blog posts.
type BlogHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/blogs.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBlogListResponse(blogs))
}

// Get handles GET /api/blogs/{id}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBlogResponse(blog))
}

// Create handles POST /api/blogs. Requires an authenticated caller.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BlogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	blog, err := h.svc.Create(r.Context(), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("blog_created",
		"blog_id", blog.ID,
		"owner_id", blog.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToBlogResponse(blog))
}

// Update handles PUT /api/blogs/{id}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.BlogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	blog, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("blog_updated", "blog_id", blog.ID)

	writeJSON(w, http.StatusOK, dto.ToBlogResponse(blog))
}

// Delete handles DELETE /api/blogs/{id}. Requires an authenticated caller.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), id, callerID); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("blog_deleted", "blog_id", id, "user_id", callerID)

	w.WriteHeader(http.StatusNoContent)
}
