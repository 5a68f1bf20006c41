// internal/ratelimit/store_redis.go
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a shared Redis instance. INCR is the atomic
// primitive, so the counter may pass the limit; callers still see
// allowed=false with remaining=0, and the window TTL is set only once so
// resetAt is never extended by denied checks.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Take(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Decision{}, err
		}
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		// Key lost its TTL (e.g. restored from a dump); reassert the window.
		ttl = window
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Decision{}, err
		}
	}

	resetAt := s.now().Add(ttl)
	if int(count) > limit {
		return Decision{Allowed: false, Remaining: 0, Limit: limit, ResetAt: resetAt}, nil
	}
	return Decision{Allowed: true, Remaining: limit - int(count), Limit: limit, ResetAt: resetAt}, nil
}
