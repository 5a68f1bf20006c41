// internal/cooldown/store_redis.go
package cooldown

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cooldown deadlines across instances. The key expires at
// the deadline itself, so an absent key simply means "not cooling down".
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func cooldownKey(provider string) string {
	return "cooldown:" + provider
}

func (s *RedisStore) Get(ctx context.Context, provider string) (time.Time, bool, error) {
	val, err := s.client.Get(ctx, cooldownKey(provider)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	until, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return until, true, nil
}

func (s *RedisStore) Set(ctx context.Context, provider string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, cooldownKey(provider), until.UTC().Format(time.RFC3339Nano), ttl).Err()
}
