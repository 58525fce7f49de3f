// Package cache exposes invalidation of externally cached views. The
// service never reads these caches itself; analytics and dashboard
// consumers own them, this side only deletes stale entries after writes.
package cache

import (
	"context"

	"github.com/redis/rueidis"
)

type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

func QuizKey(quizID string) string { return "analytics:quiz:" + quizID }
func UserKey(userID string) string { return "dashboard:user:" + userID }

type Redis struct {
	client rueidis.Client
}

func NewRedis(client rueidis.Client) *Redis { return &Redis{client: client} }

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Do(ctx, r.client.B().Del().Key(keys...).Build()).Error()
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) Invalidate(context.Context, ...string) error { return nil }
