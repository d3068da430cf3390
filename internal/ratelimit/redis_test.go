package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skip("Redis not available, skipping integration test")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	l := NewSlidingWindowLimiter(client, "test:ratelimit:")
	require.NoError(t, l.Reset(ctx, "register:127.0.0.1"))
	defer l.Reset(ctx, "register:127.0.0.1")

	for i := 0; i < 5; i++ {
		res, err := l.Allow(ctx, "register:127.0.0.1", PerMinute(5))
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5-i-1, res.Remaining)
	}

	res, err := l.Allow(ctx, "register:127.0.0.1", PerMinute(5))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Positive(t, res.RetryAfter)
}

func TestSlidingWindowLimiter_WindowSlides(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	l := NewSlidingWindowLimiter(client, "test:ratelimit:slide:")
	defer l.Reset(ctx, "k")

	rule := Rule{Limit: 1, Window: 200 * time.Millisecond}
	first, err := l.Allow(ctx, "k", rule)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	second, err := l.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, second.Allowed)

	time.Sleep(300 * time.Millisecond)
	third, err := l.Allow(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, third.Allowed)
}
