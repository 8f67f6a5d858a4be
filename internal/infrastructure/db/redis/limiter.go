package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides fixed-window request counting backed by Redis.
// Key format: rl:<resource>:<caller>
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a RateLimiter allowing limit calls per window.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether the caller may proceed. The first call in a window
// starts its expiry clock.
func (l *RateLimiter) Allow(ctx context.Context, resource, caller string) (bool, error) {
	key := l.key(resource, caller)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	return count <= l.limit, nil
}

func (l *RateLimiter) key(resource, caller string) string {
	return fmt.Sprintf("rl:%s:%s", resource, caller)
}
