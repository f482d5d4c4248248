package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one counter key per user. INCR gives the required
// atomicity for free; keys are never expired because the counter must
// outlive every token that references it.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "authgate:sver"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + ":" + userID
}

func (s *RedisStore) Increment(ctx context.Context, userID string) (int64, error) {
	v, err := s.client.Incr(ctx, s.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}
