package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/handler"
	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/middleware"
	"github.com/bloglist/bloglist/internal/server"
	"github.com/bloglist/bloglist/internal/service"
)

// ProvideHTTPServer builds the router and wraps it in a server.
func ProvideHTTPServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	store := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	rec := do.MustInvoke[*metrics.InMemoryRecorder](i)

	blogService := do.MustInvoke[*service.BlogService](i)
	userService := do.MustInvoke[*service.UserService](i)
	authService := do.MustInvoke[*service.AuthService](i)

	var cacheCheck handler.HealthChecker
	if cacheHandle.Cache != nil {
		cacheCheck = cacheHandle.Cache
	}

	router := handler.NewRouter(handler.RouterConfig{
		Logger:       log,
		Blogs:        handler.NewBlogHandler(blogService, log),
		Users:        handler.NewUserHandler(userService, log),
		Login:        handler.NewLoginHandler(authService, log),
		Stats:        handler.NewStatsHandler(blogService, log),
		Health:       handler.NewHealthHandler(store, cacheCheck),
		Metrics:      handler.NewMetricsHandler(rec),
		Tokens:       tokens,
		Recorder:     rec,
		LoginLimiter: limiter.Limiter,
		// Reported as X-RateLimit-Limit.
		LoginRateBurst: cfg.LoginRateBurst,
		Security:       securityConfig(cfg),
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		RequestTimeout: cfg.RequestTimeout,
	})

	return server.New(
		router,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		log,
	), nil
}

// securityConfig starts from the production defaults. HSTS is dropped outside
// production, and a positive MAX_REQUEST_BODY_SIZE overrides the body limit.
func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.IsDevelopment = cfg.IsDevelopment() || cfg.IsTest()
	if cfg.MaxRequestBodySize > 0 {
		sec.MaxRequestBodySize = cfg.MaxRequestBodySize
	}
	return sec
}
