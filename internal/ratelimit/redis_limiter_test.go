package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	limiter := NewRedisLimiter(client, limit, window)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return limiter, mr, cleanup
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _, cleanup := setupRedisLimiter(t, 5, time.Minute)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _, cleanup := setupRedisLimiter(t, 1, time.Minute)
	defer cleanup()

	ctx := context.Background()
	allowed, err := limiter.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "2.2.2.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	limiter, _, cleanup := setupRedisLimiter(t, 1, 50*time.Millisecond)
	defer cleanup()

	ctx := context.Background()
	allowed, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	require.False(t, allowed)

	// old entries fall out of range once the window passes
	time.Sleep(60 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_ConcurrentAllow(t *testing.T) {
	limiter, _, cleanup := setupRedisLimiter(t, 20, time.Minute)
	defer cleanup()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := limiter.Allow(context.Background(), "shared")
			require.NoError(t, err)
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), allowed.Load())
}

func TestRedisLimiter_ErrorWhenRedisUnavailable(t *testing.T) {
	limiter, mr, cleanup := setupRedisLimiter(t, 5, time.Minute)
	defer cleanup()

	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "ip")
	assert.Error(t, err)
	assert.False(t, allowed)
}
