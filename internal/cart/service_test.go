package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	m    sync.RWMutex
	cart *Cart
	err  error
}

func (m *mockStore) Get(context.Context, string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockStore) Set(_ context.Context, cart *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = cart
	return nil
}

func (m *mockStore) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = nil
	return nil
}

func TestGetCart_Success(t *testing.T) {
	store := &mockStore{
		cart: &Cart{
			UserID: "123",
			Items: []CartItem{
				{ProductID: "pf-001", Quantity: 5},
				{ProductID: "pf-002", Quantity: 10},
			},
		},
	}

	sut := NewService(store)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Len(t, ret.Items, 2)
	assert.Equal(t, "pf-001", ret.Items[0].ProductID)
	assert.Equal(t, 5, ret.Items[0].Quantity)
}

func TestGetCart_NotFound_ReturnsEmptyCart(t *testing.T) {
	store := &mockStore{}

	sut := NewService(store)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.NotNil(t, ret)
	assert.Equal(t, "123", ret.UserID)
	assert.Empty(t, ret.Items)
}

func TestGetCart_StoreError(t *testing.T) {
	store := &mockStore{err: fmt.Errorf("redis down")}

	sut := NewService(store)
	ret, err := sut.GetCart(context.Background(), "123")
	require.ErrorContains(t, err, "redis down")
	assert.Nil(t, ret)
}

func TestAddItem_NewItem(t *testing.T) {
	store := &mockStore{}

	sut := NewService(store)
	ret, err := sut.AddItem(context.Background(), "123", CartItem{
		ProductID: "pf-001",
		Quantity:  2,
		AddedAt:   time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, 2, ret.Items[0].Quantity)
}

func TestAddItem_ExistingItemBumpsQuantity(t *testing.T) {
	store := &mockStore{
		cart: &Cart{
			UserID: "123",
			Items:  []CartItem{{ProductID: "pf-001", Quantity: 2}},
		},
	}

	sut := NewService(store)
	ret, err := sut.AddItem(context.Background(), "123", CartItem{ProductID: "pf-001", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, 5, ret.Items[0].Quantity)
}

func TestUpdateQuantity_Success(t *testing.T) {
	store := &mockStore{
		cart: &Cart{
			UserID: "123",
			Items: []CartItem{
				{ProductID: "pf-001", Quantity: 5},
				{ProductID: "pf-002", Quantity: 10},
			},
		},
	}

	sut := NewService(store)
	ret, err := sut.UpdateQuantity(context.Background(), "123", "pf-001", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, ret.Items[0].Quantity)
}

func TestUpdateQuantity_UnknownItem(t *testing.T) {
	store := &mockStore{cart: &Cart{UserID: "123"}}

	sut := NewService(store)
	_, err := sut.UpdateQuantity(context.Background(), "123", "pf-404", 1)
	require.ErrorContains(t, err, "not in cart")
}

func TestRemoveItem_Success(t *testing.T) {
	store := &mockStore{
		cart: &Cart{
			UserID: "123",
			Items: []CartItem{
				{ProductID: "pf-001", Quantity: 5},
				{ProductID: "pf-002", Quantity: 10},
			},
		},
	}

	sut := NewService(store)
	ret, err := sut.RemoveItem(context.Background(), "123", "pf-001")
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, "pf-002", ret.Items[0].ProductID)
}

func TestClearCart_Success(t *testing.T) {
	store := &mockStore{
		cart: &Cart{UserID: "123", Items: []CartItem{{ProductID: "pf-001", Quantity: 5}}},
	}

	sut := NewService(store)
	err := sut.ClearCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, store.cart)
}

func TestClearCart_StoreError(t *testing.T) {
	store := &mockStore{err: fmt.Errorf("redis down")}

	sut := NewService(store)
	err := sut.ClearCart(context.Background(), "123")
	require.ErrorContains(t, err, "redis down")
}
