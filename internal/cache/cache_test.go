package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupRedisStore(t *testing.T, prefix string) *RedisStore {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewRedisStore(client, prefix)
}

// memStore is an in-process Store for tests that do not need Redis.
type memStore struct {
	mu   sync.Mutex
	data map[string]any
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]any{}}
}

func (m *memStore) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*(dest.(*cachedUser)) = v.(cachedUser)
	return true, nil
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	store := setupRedisStore(t, "test:cache:")
	ctx := context.Background()

	var out cachedUser
	found, err := store.Get(ctx, "user:alice", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "user:alice", cachedUser{ID: 1, Username: "alice"}, time.Minute))

	found, err = store.Get(ctx, "user:alice", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", out.Username)

	require.NoError(t, store.Delete(ctx, "user:alice"))
	found, err = store.Get(ctx, "user:alice", &out)
	require.NoError(t, err)
	assert.False(t, found)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestRedisStore_TTLExpires(t *testing.T) {
	store := setupRedisStore(t, "test:cache:ttl:")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", cachedUser{ID: 1}, 100*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	var out cachedUser
	found, err := store.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFetch_MissThenHit(t *testing.T) {
	rt := NewReadThrough(newMemStore(), time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	load := func(context.Context) (cachedUser, error) {
		calls.Add(1)
		return cachedUser{ID: 7, Username: "bob"}, nil
	}

	first, err := Fetch(ctx, rt, UserKey("bob"), load)
	require.NoError(t, err)
	second, err := Fetch(ctx, rt, UserKey("bob"), load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second lookup should be served from cache")
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	rt := NewReadThrough(newMemStore(), time.Minute)
	ctx := context.Background()
	notFound := errors.New("not found")

	_, err := Fetch(ctx, rt, "user:ghost", func(context.Context) (cachedUser, error) {
		return cachedUser{}, notFound
	})
	assert.ErrorIs(t, err, notFound)

	got, err := Fetch(ctx, rt, "user:ghost", func(context.Context) (cachedUser, error) {
		return cachedUser{ID: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.ID)
}

func TestFetch_StoreFailureFallsBackToLoader(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	rt := NewReadThrough(store, time.Minute)

	got, err := Fetch(context.Background(), rt, "user:carol", func(context.Context) (cachedUser, error) {
		return cachedUser{ID: 9, Username: "carol"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)

	assert.NotPanics(t, func() { rt.Invalidate(context.Background(), "user:carol") })
}

func TestFetch_NilStoreIsPassThrough(t *testing.T) {
	rt := NewReadThrough(nil, 0)
	var calls int
	for i := 0; i < 3; i++ {
		_, err := Fetch(context.Background(), rt, "k", func(context.Context) (cachedUser, error) {
			calls++
			return cachedUser{}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	rt := NewReadThrough(newMemStore(), time.Minute)
	ctx := context.Background()

	name := "dave"
	load := func(context.Context) (cachedUser, error) {
		return cachedUser{ID: 1, Username: name}, nil
	}

	_, err := Fetch(ctx, rt, UserKey("dave"), load)
	require.NoError(t, err)

	name = "dave-updated"
	rt.Invalidate(ctx, UserKey("dave"))

	got, err := Fetch(ctx, rt, UserKey("dave"), load)
	require.NoError(t, err)
	assert.Equal(t, "dave-updated", got.Username)
}
