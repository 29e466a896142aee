package orders

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is the server-side record created at checkout. Its later status
// transitions are driven by the payment webhook, this service only
// creates pending orders and reads them back.
type Order struct {
	ID            string
	UserID        string
	Status        OrderStatus
	Amount        int64
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
}

type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     int64
}

type OutboxEvent struct {
	ID          int
	AggregateId string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}
