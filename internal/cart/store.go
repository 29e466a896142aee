package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

type Store interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}
