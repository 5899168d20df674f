package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis under "<prefix>:<namespace>:<key>".
//
// The namespace separates independent clients sharing one Redis (for example
// one per CLI profile); an empty namespace maps to "default".
type RedisStore struct {
	redis     redis.UniversalClient
	prefix    string
	namespace string
	ttl       time.Duration
}

// NewRedisStore creates a [RedisStore]. A ttl of zero keeps keys until deleted.
func NewRedisStore(client redis.UniversalClient, prefix, namespace string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "gaf"
	}
	return &RedisStore{
		redis:     client,
		prefix:    prefix,
		namespace: normalizeNamespace(namespace),
		ttl:       ttl,
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + s.namespace + ":" + key
}

func normalizeNamespace(ns string) string {
	if ns == "" {
		return "default"
	}
	return ns
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return v, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.redis.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SetMany writes every pair in one MULTI/EXEC transaction.
func (s *RedisStore) SetMany(ctx context.Context, values map[string]string) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
