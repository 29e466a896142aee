package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestCacheGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	product := &Product{
		ID:              "pf-001",
		Name:            "Whiskers Tuna 1kg",
		Price:           55000,
		DiscountPercent: 0,
		CreatedAt:       time.Now(),
	}

	data, _ := json.Marshal(product)
	mr.Set(cacheKey(product.ID), string(data))

	result, err := cache.Get(context.Background(), "pf-001")
	require.NoError(t, err)
	assert.Equal(t, "pf-001", result.ID)
	assert.Equal(t, float64(55000), result.Price)
}

func TestCacheGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestCacheGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("pf-001"), "{not json")

	result, err := cache.Get(context.Background(), "pf-001")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCacheSet_ThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	product := &Product{ID: "pf-002", Name: "Bolt Chicken 800g", Price: 32000}

	err := cache.Set(context.Background(), product)
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey("pf-002")))

	result, err := cache.Get(context.Background(), "pf-002")
	require.NoError(t, err)
	assert.Equal(t, "Bolt Chicken 800g", result.Name)

	// TTL must be set so stale products eventually fall out
	assert.Greater(t, mr.TTL(cacheKey("pf-002")), time.Duration(0))
}

func TestCacheDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("pf-003"), `{"ID":"pf-003"}`)

	err := cache.Delete(context.Background(), "pf-003")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey("pf-003")))
}
