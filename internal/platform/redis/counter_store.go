package redis

import (
	"context"
	"errors"
	"time"

	"myshop_backend/internal/shared/ratelimiter"

	"github.com/redis/go-redis/v9"
)

// CounterStore implements ratelimiter.CounterStore on Redis strings.
type CounterStore struct {
	client redis.UniversalClient
}

var _ ratelimiter.CounterStore = (*CounterStore)(nil)

// NewCounterStore creates a new CounterStore instance.
func NewCounterStore(client redis.UniversalClient) *CounterStore {
	return &CounterStore{client: client}
}

// Get returns the counter value, or 0 when the key does not exist.
func (s *CounterStore) Get(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Incr increments key and resets its TTL in a single MULTI/EXEC.
func (s *CounterStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
