package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session state in redis so workspaces survive restarts.
// Like MemoryStore, keys expire ttl after they were written.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "console:session"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(namespace, key string) string {
	return s.prefix + ":" + storeKey(namespace, key)
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.client.Set(ctx, s.key(namespace, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(namespace, k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}
	return nil
}
