package di

import (
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"myshop_backend/internal/platform/redis"
	"myshop_backend/internal/shared/ratelimiter"
)

// NewCounterStore creates the login counter store.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise it returns nil and login throttling is disabled.
func NewCounterStore(rdb *goredis.Client) ratelimiter.CounterStore {
	if rdb == nil {
		slog.Warn("login rate limiting disabled: no Redis configured")
		return nil
	}
	return redis.NewCounterStore(rdb)
}
