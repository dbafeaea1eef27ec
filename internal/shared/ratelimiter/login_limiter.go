// Package ratelimiter throttles repeated login failures per client address.
package ratelimiter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// KeyPrefix namespaces login counters in the shared store.
	KeyPrefix = "rate:login:"
	// MaxLoginAttempts is the number of failures tolerated inside one window.
	MaxLoginAttempts = 5
	// LoginWindow is how long a counter lives after its latest increment.
	LoginWindow = 15 * time.Minute
	// UnknownClient is the shared bucket for requests without a proxy header.
	UnknownClient = "unknown"
)

// CounterStore is a TTL counter keyed by string.
type CounterStore interface {
	// Get returns the current value, or 0 when the key does not exist.
	Get(ctx context.Context, key string) (int64, error)
	// Incr adds one to the counter and resets its expiry to ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// LoginLimiter counts failed logins per client key.
// With a nil store every check is allowed and nothing is recorded.
type LoginLimiter struct {
	store  CounterStore
	max    int64
	window time.Duration
}

// NewLoginLimiter returns a limiter with the default budget of
// MaxLoginAttempts failures per LoginWindow.
func NewLoginLimiter(store CounterStore) *LoginLimiter {
	return &LoginLimiter{
		store:  store,
		max:    MaxLoginAttempts,
		window: LoginWindow,
	}
}

// Enabled reports whether a backing store is configured.
func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.store != nil
}

// Allow reports whether clientKey may attempt another login.
func (l *LoginLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	if !l.Enabled() {
		// degraded mode: no store, no throttling
		return true, nil
	}

	count, err := l.store.Get(ctx, KeyPrefix+clientKey)
	if err != nil {
		return false, fmt.Errorf("read login counter: %w", err)
	}
	return count < l.max, nil
}

// Record counts one failed attempt and slides the window forward.
func (l *LoginLimiter) Record(ctx context.Context, clientKey string) error {
	if !l.Enabled() {
		return nil
	}

	if _, err := l.store.Incr(ctx, KeyPrefix+clientKey, l.window); err != nil {
		return fmt.Errorf("increment login counter: %w", err)
	}
	return nil
}

// ClientKey identifies the caller from proxy headers. CF-Connecting-IP wins
// over X-Forwarded-For; only the first comma-separated entry is used.
func ClientKey(r *http.Request) string {
	for _, h := range []string{"CF-Connecting-IP", "X-Forwarded-For"} {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if first := strings.TrimSpace(strings.Split(v, ",")[0]); first != "" {
			return first
		}
	}
	return UnknownClient
}
