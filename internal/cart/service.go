package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetCart returns the user's cart, or an empty cart when none exists yet.
func (s *Service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return &Cart{
			UserID:    userID,
			Items:     nil,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem appends a new item or bumps the quantity of an existing one.
func (s *Service) AddItem(ctx context.Context, userID string, item CartItem) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		log.Printf("store get cart error: %v \n", err)
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cart)
}

func (s *Service) UpdateQuantity(ctx context.Context, userID string, productID string, quantity int) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		log.Printf("store get cart error: %v \n", err)
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, cart)
		}
	}
	return nil, fmt.Errorf("item %s not in cart", productID)
}

func (s *Service) RemoveItem(ctx context.Context, userID string, productID string) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		log.Printf("store get cart error: %v \n", err)
		return nil, err
	}

	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return s.save(ctx, cart)
		}
	}
	return nil, fmt.Errorf("item %s not in cart", productID)
}

// ClearCart destroys the cart, used on explicit clear and after checkout.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		log.Printf("store delete cart error: %v \n", err)
		return err
	}
	return nil
}

func (s *Service) save(ctx context.Context, cart *Cart) (*Cart, error) {
	cart.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, cart); err != nil {
		log.Printf("store set cart error: %v \n", err)
		return nil, err
	}
	return cart, nil
}
