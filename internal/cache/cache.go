// Package cache provides a Redis-backed key/value store and a best-effort
// read-through wrapper on top of it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the key/value contract the read-through layer needs.
type Store interface {
	// Get decodes the value at key into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Stats counts cache traffic.
type Stats struct {
	Hits   atomic.Int64
	Misses atomic.Int64
	Errors atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// RedisStore stores JSON values under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	stats  *Stats
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		stats:  &Stats{},
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.stats.Misses.Add(1)
			return false, nil
		}
		s.stats.Errors.Add(1)
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.stats.Errors.Add(1)
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	s.stats.Hits.Add(1)
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		s.stats.Errors.Add(1)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		s.stats.Errors.Add(1)
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Stats() StatsSnapshot {
	return StatsSnapshot{
		Hits:   s.stats.Hits.Load(),
		Misses: s.stats.Misses.Load(),
		Errors: s.stats.Errors.Load(),
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// NopStore never stores anything; every Get is a miss. Used when Redis is
// not configured.
type NopStore struct{}

func (NopStore) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopStore) Set(context.Context, string, any, time.Duration) error { return nil }
func (NopStore) Delete(context.Context, ...string) error { return nil }
