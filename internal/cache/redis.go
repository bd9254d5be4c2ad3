// Package cache holds the Redis-backed parts of the API. Only login attempt
// buckets are stored in Redis; blog and user data never are.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Login traffic is small and bursty, so the pool stays modest.
const (
	poolSize        = 10
	minIdleConns    = 2
	poolTimeout     = 4 * time.Second
	connMaxIdleTime = 5 * time.Minute
)

// Cache is the Redis connection shared by the login limiter and the
// readiness probe.
type Cache struct {
	client *redis.Client
}

// New parses redisURL, opens a pooled client and pings it once.
// The client is closed again when the ping fails.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = poolSize
	opt.MinIdleConns = minIdleConns
	opt.PoolTimeout = poolTimeout
	opt.ConnMaxIdleTime = connMaxIdleTime

	c := &Cache{client: redis.NewClient(opt)}
	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// Ping reports whether Redis answers. Used by /readyz.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Shutdown closes the client when the container stops.
func (c *Cache) Shutdown() error {
	return c.client.Close()
}
