// Package ratelimit throttles anonymous quiz submissions with a fixed
// window counter, backed by Redis when configured and by process memory
// otherwise.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

type Limiter interface {
	// Allow reports whether one more event is permitted for key within the
	// current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts events per key with INCR and lets Redis expire the
// window. Shared across instances, so the limit holds fleet-wide.
type RedisLimiter struct {
	client rueidis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client rueidis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(limit), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Do(ctx, l.client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	if n == 1 {
		err := l.client.Do(ctx, l.client.B().Expire().Key(key).Seconds(int64(l.window.Seconds())).Build()).Error()
		if err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}

// MemoryLimiter is the single-process fallback.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time // test hook
}

type bucket struct {
	count int
	reset time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	return b.count <= l.limit, nil
}

// Unlimited never throttles; used when rate limiting is disabled.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
