package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Check(t *testing.T) {
	tests := []struct {
		name      string
		perMinute int
		burst     int
		calls     int
		wantPass  int
	}{
		{"burst allows initial requests", 60, 3, 3, 3},
		{"exceeding burst blocks", 60, 2, 5, 2},
		{"single token", 10, 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.perMinute, tt.burst, 0)
			defer rl.Stop()

			fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			rl.now = func() time.Time { return fixed }

			passed := 0
			for i := 0; i < tt.calls; i++ {
				res, err := rl.Check(context.Background(), "203.0.113.7")
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				if res.Allowed {
					passed++
				} else if res.RetryAfter <= 0 {
					t.Errorf("denied result should carry RetryAfter, got %v", res.RetryAfter)
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Check() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()
	ctx := context.Background()

	a, _ := rl.Check(ctx, "a")
	b, _ := rl.Check(ctx, "b")
	a2, _ := rl.Check(ctx, "a")

	if !a.Allowed || !b.Allowed {
		t.Error("first request per key should pass")
	}
	if a2.Allowed {
		t.Error("second request for key a should be limited")
	}
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	rl := New(60, 1, 0)
	defer rl.Stop()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if res, _ := rl.Check(ctx, "k"); !res.Allowed {
		t.Fatal("first request should pass")
	}
	if res, _ := rl.Check(ctx, "k"); res.Allowed {
		t.Fatal("second request should be limited")
	}

	now = now.Add(time.Second)
	if res, _ := rl.Check(ctx, "k"); !res.Allowed {
		t.Error("bucket should refill after one second at 60/min")
	}
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	rl := New(60, 1, time.Minute)
	defer rl.Stop()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	_, _ = rl.Check(ctx, "old")
	now = now.Add(2 * time.Minute)
	_, _ = rl.Check(ctx, "fresh")

	rl.evictIdle()
	if got := rl.Len(); got != 1 {
		t.Errorf("Len() after eviction = %d, want 1", got)
	}
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	rl := New(60, 1, time.Minute)
	rl.Stop()
	rl.Stop()
	if err := rl.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
