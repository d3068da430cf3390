package cache

import (
	"context"
	"fmt"
	"time"

	"contacts_backend/internal/logger"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL applies when a ReadThrough is built with a zero ttl.
const DefaultTTL = 24 * time.Hour

// ReadThrough wraps lookups with get/set around a Store. Store failures are
// logged and swallowed: the cache never decides correctness.
type ReadThrough struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

func NewReadThrough(store Store, ttl time.Duration) *ReadThrough {
	if store == nil {
		store = NopStore{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReadThrough{store: store, ttl: ttl}
}

// Fetch returns the cached value at key, or calls load, caches its result
// and returns it. Concurrent misses on one key share a single load. Load
// errors are returned and nothing is cached.
func Fetch[T any](ctx context.Context, rt *ReadThrough, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := rt.store.Get(ctx, key, &cached)
	if err != nil {
		logger.CtxWithError(ctx, "cache get failed", err, "key", key)
	}
	if found {
		logger.CtxDebug(ctx, "cache hit", "key", key)
		return cached, nil
	}

	v, err, _ := rt.group.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		if setErr := rt.store.Set(ctx, key, value, rt.ttl); setErr != nil {
			logger.CtxWithError(ctx, "cache set failed", setErr, "key", key)
		}
		logger.CtxDebug(ctx, "cache miss", "key", key)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type %T for %s", v, key)
	}
	return value, nil
}

// Invalidate drops key. Failures are logged, not returned.
func (rt *ReadThrough) Invalidate(ctx context.Context, keys ...string) {
	if err := rt.store.Delete(ctx, keys...); err != nil {
		logger.CtxWithError(ctx, "cache invalidate failed", err, "keys", keys)
	}
}

// Set stores value at key with the configured ttl. Failures are logged.
func (rt *ReadThrough) Set(ctx context.Context, key string, value any) {
	if err := rt.store.Set(ctx, key, value, rt.ttl); err != nil {
		logger.CtxWithError(ctx, "cache set failed", err, "key", key)
	}
}

// UserKey is the cache key for a user looked up by username.
func UserKey(username string) string {
	return "user:" + username
}
