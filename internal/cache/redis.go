package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window request budgets with redis counters:
// INCR, then EXPIRE on the first hit of a window. Fails open when redis is
// unreachable so an outage throttles nobody.
type RateLimiter struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRateLimiter(client *redis.Client, log *slog.Logger) *RateLimiter {
	return &RateLimiter{client: client, log: log}
}

func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn("rate limiter unavailable, allowing request", "error", err)
		return true
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			l.log.Warn("failed to set rate limit window", "error", err)
		}
	}

	return count <= int64(limit)
}
