package handler

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/middleware"
	"github.com/bloglist/bloglist/internal/ratelimit"
)

// RouterConfig carries the handlers and middleware settings for NewRouter.
type RouterConfig struct {
	Logger *slog.Logger

	Root    *Handler
	Blogs   *BlogHandler
	Users   *UserHandler
	Login   *LoginHandler
	Stats   *StatsHandler
	Health  *HealthHandler
	Metrics *MetricsHandler

	Tokens   middleware.TokenVerifier
	Recorder metrics.Recorder

	// LoginLimiter may be nil to disable login rate limiting.
	LoginLimiter   ratelimit.Limiter
	LoginRateBurst int

	Security       middleware.SecurityConfig
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Root == nil {
		cfg.Root = New()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Recorder))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	if cfg.Security.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Operational endpoints
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}
	r.Get("/", cfg.Root.Hello)

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Logger: cfg.Logger,
		Tokens: cfg.Tokens,
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", cfg.Blogs.List)
			r.With(requireAuth).Post("/", cfg.Blogs.Create)
			r.Get("/{id}", cfg.Blogs.Get)
			r.Put("/{id}", cfg.Blogs.Update)
			r.With(requireAuth).Delete("/{id}", cfg.Blogs.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.Users.List)
			r.Post("/", cfg.Users.Create)
			r.Get("/{id}", cfg.Users.Get)
			r.Delete("/{id}", cfg.Users.Delete)
		})

		r.With(middleware.RateLimitLogin(middleware.RateLimitConfig{
			Logger:  cfg.Logger,
			Limiter: cfg.LoginLimiter,
			Metrics: cfg.Recorder,
			Limit:   cfg.LoginRateBurst,
		})).Post("/login", cfg.Login.Login)

		if cfg.Stats != nil {
			r.Get("/stats", cfg.Stats.Summary)
		}
	})

	r.NotFound(cfg.Root.NotFound)
	r.MethodNotAllowed(cfg.Root.MethodNotAllowed)

	return r
}
