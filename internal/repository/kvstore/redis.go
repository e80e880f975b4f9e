package kvstore

import (
	"context"
	"errors"
	"time"

	"legalaid-intake-be/pkg/wizard"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "intake:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ wizard.KeyValueStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, redisPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set refreshes the TTL on every write, so active drafts never expire.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, redisPrefix+key, value, s.ttl).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, redisPrefix+key).Err()
}
