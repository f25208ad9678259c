package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRateLimiter(client, "test"), mr
}

func TestRedisRateLimiterEnforcesLimit(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	var allowed []bool
	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		allowed = append(allowed, ok)
	}

	assert.Equal(t, []bool{true, true, false, false, false}, allowed)

	members, err := mr.ZMembers("test:10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, members, 2, "rejected requests must not be recorded")
	assert.True(t, mr.Exists("test:10.0.0.1"))
	assert.Equal(t, 2*time.Minute, mr.TTL("test:10.0.0.1"))
}

func TestRedisRateLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisRateLimiterReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewRedisRateLimiter(client, "")
	assert.Equal(t, "ratelimit", limiter.prefix)

	allowed, err := limiter.Allow(context.Background(), "127.0.0.1:/api/generate", 10, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}
