package ratelimiter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	n       int64
	expires time.Time
}

// fakeStore is an in-memory CounterStore driven by a manual clock.
type fakeStore struct {
	now     time.Time
	data    map[string]entry
	getErr  error
	incrErr error
	lastTTL time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{now: time.Unix(1_700_000_000, 0), data: map[string]entry{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (int64, error) {
	if f.getErr != nil {
		return 0, f.getErr
	}
	e, ok := f.data[key]
	if !ok || !f.now.Before(e.expires) {
		return 0, nil
	}
	return e.n, nil
}

func (f *fakeStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	e := f.data[key]
	if !f.now.Before(e.expires) {
		e.n = 0
	}
	e.n++
	e.expires = f.now.Add(ttl)
	f.data[key] = e
	f.lastTTL = ttl
	return e.n, nil
}

func (f *fakeStore) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestLoginLimiter_BlocksAfterFiveFailures(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	l := NewLoginLimiter(store)

	for i := 0; i < MaxLoginAttempts; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
		require.NoError(t, l.Record(ctx, "1.2.3.4"))
	}

	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(5), store.data["rate:login:1.2.3.4"].n)
	assert.Equal(t, LoginWindow, store.lastTTL)

	// other clients are unaffected
	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)

	store.advance(LoginWindow + time.Second)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "window elapsed")
}

func TestLoginLimiter_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	l := NewLoginLimiter(store)

	for i := 0; i < MaxLoginAttempts; i++ {
		require.NoError(t, l.Record(ctx, "k"))
	}
	store.advance(10 * time.Minute)
	require.NoError(t, l.Record(ctx, "k"))

	// 20 minutes after the first failure the lockout still holds
	store.advance(10 * time.Minute)
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	store.advance(6 * time.Minute)
	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_NoStore(t *testing.T) {
	ctx := context.Background()
	l := NewLoginLimiter(nil)

	assert.False(t, l.Enabled())
	for i := 0; i < 20; i++ {
		require.NoError(t, l.Record(ctx, "k"))
	}
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_StoreErrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.incrErr = errors.New("connection refused")
	l := NewLoginLimiter(store)

	_, err := l.Allow(ctx, "k")
	assert.ErrorIs(t, err, store.getErr)
	assert.ErrorIs(t, l.Record(ctx, "k"), store.incrErr)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare header", map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.1.1.1"}, "9.9.9.9"},
		{"forwarded list", map[string]string{"X-Forwarded-For": " 1.1.1.1 , 10.0.0.1"}, "1.1.1.1"},
		{"cloudflare list", map[string]string{"CF-Connecting-IP": "2.2.2.2, 3.3.3.3"}, "2.2.2.2"},
		{"empty first entry falls through", map[string]string{"CF-Connecting-IP": " ,x", "X-Forwarded-For": "4.4.4.4"}, "4.4.4.4"},
		{"no headers", nil, UnknownClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientKey(r))
		})
	}
}
