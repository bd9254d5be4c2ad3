package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/cache"
	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/ratelimit"
)

// CacheHandle wraps the optional Redis client. Cache is nil when REDIS_URL is unset.
type CacheHandle struct {
	Cache *cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	if h.Cache == nil {
		return nil
	}
	return h.Cache.Shutdown()
}

// ProvideCache connects to Redis when configured.
// An unreachable Redis is logged and the process falls back to in-memory limiting.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if cfg.RedisURL == "" {
		log.Info("redis not configured")
		return &CacheHandle{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return &CacheHandle{}, nil
	}

	log.Info("connected to Redis")
	return &CacheHandle{Cache: c}, nil
}

// LoginLimiterHandle holds the limiter applied to POST /api/login.
// Limiter is nil when login rate limiting is disabled.
type LoginLimiterHandle struct {
	Limiter ratelimit.Limiter
	local   *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	if h.local != nil {
		return h.local.Shutdown()
	}
	return nil
}

// ProvideLoginLimiter selects the Redis limiter when Redis is available and
// the in-process limiter otherwise.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)

	if !cfg.LoginRateLimitEnabled() {
		log.Warn("login rate limiting disabled")
		return &LoginLimiterHandle{}, nil
	}

	if cacheHandle.Cache != nil {
		log.Info("login rate limiting backed by redis",
			slog.Int("per_minute", cfg.LoginRatePerMinute),
			slog.Int("burst", cfg.LoginRateBurst),
		)
		return &LoginLimiterHandle{
			Limiter: cache.NewLoginLimiter(cacheHandle.Cache, cfg.LoginRatePerMinute, cfg.LoginRateBurst),
		}, nil
	}

	local := ratelimit.New(cfg.LoginRatePerMinute, cfg.LoginRateBurst, 10*time.Minute)
	log.Info("login rate limiting in process",
		slog.Int("per_minute", cfg.LoginRatePerMinute),
		slog.Int("burst", cfg.LoginRateBurst),
	)
	return &LoginLimiterHandle{Limiter: local, local: local}, nil
}
