package cart

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

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestStoreGet_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &Cart{
		UserID: "user123",
		Items: []CartItem{
			{ProductID: "pf-001", Quantity: 2},
			{ProductID: "pf-002", Quantity: 3},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(storeKey("user123"), string(cartJSON))

	result, err := store.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "pf-001", result.Items[0].ProductID)
}

func TestStoreGet_NotFound(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, result)
}

func TestStoreGet_InvalidJSON(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(storeKey("user123"), "{broken")

	result, err := store.Get(context.Background(), "user123")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestStoreSet_ThenGet(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &Cart{
		UserID: "user123",
		Items:  []CartItem{{ProductID: "pf-001", Quantity: 1}},
	}

	err := store.Set(context.Background(), cart)
	require.NoError(t, err)
	require.True(t, mr.Exists(storeKey("user123")))

	result, err := store.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	// abandoned carts must expire
	assert.Greater(t, mr.TTL(storeKey("user123")), time.Duration(0))
}

func TestStoreDelete(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(storeKey("user123"), `{"user_id":"user123"}`)

	err := store.Delete(context.Background(), "user123")
	require.NoError(t, err)
	assert.False(t, mr.Exists(storeKey("user123")))
}
