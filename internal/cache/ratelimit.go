package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloglist/bloglist/internal/ratelimit"
)

const (
	// rateLimitLoginPrefix is the Redis key prefix for login attempts per IP.
	rateLimitLoginPrefix = "ratelimit:login:"
	// rateLimitLoginTTL is the TTL for login rate limit keys.
	rateLimitLoginTTL = 10 * time.Minute
)

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	-- Get current state
	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	-- Refill tokens based on elapsed time
	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	-- Check if request is allowed
	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		-- Calculate when 1 token will be available
		retry_after = math.ceil((1 - tokens) / rate)
	end

	-- Update state
	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// LoginLimiter limits login attempts per client IP using the Redis token bucket.
type LoginLimiter struct {
	cache     *Cache
	perMinute int
	burst     int
}

// NewLoginLimiter creates a limiter allowing perMinute attempts per IP with the given burst.
func NewLoginLimiter(c *Cache, perMinute, burst int) *LoginLimiter {
	return &LoginLimiter{cache: c, perMinute: perMinute, burst: burst}
}

// Check consumes one attempt for the given client IP.
// IP is hashed to avoid storing raw IP addresses.
func (l *LoginLimiter) Check(ctx context.Context, ip string) (*ratelimit.Result, error) {
	key := loginKey(ip)
	ratePerSecond := float64(l.perMinute) / 60.0

	return l.cache.checkRateLimit(ctx, key, ratePerSecond, l.burst, int(rateLimitLoginTTL.Seconds()))
}

// checkRateLimit is the common rate limit implementation.
func (c *Cache) checkRateLimit(ctx context.Context, key string, rate float64, burst, ttl int) (*ratelimit.Result, error) {
	now := time.Now()

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rate, burst, now.Unix(), ttl,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}

	return &ratelimit.Result{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		ResetAt:    now.Add(time.Duration(float64(time.Second) / rate)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

// loginKey builds the bucket key for one client IP. The IP is stored only as
// a truncated SHA-256 digest.
func loginKey(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return rateLimitLoginPrefix + hex.EncodeToString(sum[:8])
}
