package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/WasepSKT/commerce-web-sub003/internal/cart"
	"github.com/WasepSKT/commerce-web-sub003/internal/catalog"
	"github.com/WasepSKT/commerce-web-sub003/internal/orders"
	"github.com/WasepSKT/commerce-web-sub003/internal/payment"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type CatalogService interface {
	GetProducts(ctx context.Context, ids []string) (map[string]*catalog.Product, error)
}

type CheckoutRequest struct {
	UserID    string
	Customer  payment.Customer
	Selection payment.Selection
	ReturnURL string
}

type CheckoutResponse struct {
	OrderID     string            `json:"order_id"`
	Amount      int64             `json:"amount"`
	Lines       []LineItem        `json:"lines"`
	Provider    string            `json:"provider"`
	SessionID   string            `json:"session_id,omitempty"`
	RedirectURL string            `json:"redirect_url"`
	Selection   payment.Selection `json:"payment"`
}

type Quote struct {
	Lines    []LineItem `json:"lines"`
	Subtotal int64      `json:"subtotal"`
}

type Service struct {
	carts    CartService
	products CatalogService
	repo     orders.RepoInterface
	sessions payment.SessionClient
}

func NewService(carts CartService, products CatalogService, repo orders.RepoInterface, sessions payment.SessionClient) *Service {
	return &Service{
		carts:    carts,
		products: products,
		repo:     repo,
		sessions: sessions,
	}
}

// Quote prices the user's current cart without any side effects.
func (s *Service) Quote(ctx context.Context, userID string) (*Quote, error) {
	userCart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	lines, err := s.priceCart(ctx, userCart)
	if err != nil {
		return nil, err
	}

	return &Quote{Lines: lines, Subtotal: Subtotal(lines)}, nil
}

// Checkout prices the cart, persists a pending order and opens a
// payment session the shopper gets redirected to.
func (s *Service) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Selection.Validate(); err != nil {
		return nil, err
	}

	userCart, err := s.carts.GetCart(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(userCart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines, err := s.priceCart(ctx, userCart)
	if err != nil {
		return nil, err
	}
	amount := Subtotal(lines)

	now := time.Now()
	order := &orders.Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Status:        orders.StatusPending,
		Amount:        amount,
		PaymentMethod: fmt.Sprintf("%s/%s", req.Selection.Method, req.Selection.Channel),
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         toOrderItems(lines),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, &payment.SessionRequest{
		OrderID:   order.ID,
		Amount:    amount,
		Customer:  req.Customer,
		Items:     toSessionItems(lines),
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		// the order stays pending, the webhook side cancels it later
		return nil, err
	}

	// cart is done, drop it; a failure here only means the shopper
	// sees their old cart again
	if err := s.carts.ClearCart(ctx, req.UserID); err != nil {
		log.Printf("failed to clear cart after checkout for user %v: %v", req.UserID, err)
	}

	return &CheckoutResponse{
		OrderID:     order.ID,
		Amount:      amount,
		Lines:       lines,
		Provider:    session.Provider,
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL(),
		Selection:   req.Selection,
	}, nil
}

func (s *Service) priceCart(ctx context.Context, userCart *cart.Cart) ([]LineItem, error) {
	ids := make([]string, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	return BuildLineItems(userCart.Items, products), nil
}

func toOrderItems(lines []LineItem) []orders.OrderItem {
	items := make([]orders.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = orders.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
	}
	return items
}

func toSessionItems(lines []LineItem) []payment.SessionItem {
	items := make([]payment.SessionItem, len(lines))
	for i, line := range lines {
		items[i] = payment.SessionItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
	}
	return items
}
