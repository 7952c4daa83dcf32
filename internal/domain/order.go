package domain

import (
	"context"
	"time"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// TicketLine is one ticket-line item of an order.
type TicketLine struct {
	Type     string   `json:"type"`
	Quantity int      `json:"quantity"`
	Seats    []string `json:"seats,omitempty"`
	Price    float64  `json:"price"`
}

// Order represents a ticket purchase for a single event.
// Only confirmed orders count toward sales reports.
// swagger:model Order
type Order struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	EventID     string       `json:"event_id"`
	Tickets     []TicketLine `json:"tickets"`
	TotalAmount float64      `json:"total_amount"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewOrder returns a new pending Order. ID is typically set by the repository on create.
func NewOrder(userID, eventID string, tickets []TicketLine, createdAt time.Time) *Order {
	total := 0.0
	for _, t := range tickets {
		total += t.Price * float64(t.Quantity)
	}
	return &Order{
		UserID:      userID,
		EventID:     eventID,
		Tickets:     tickets,
		TotalAmount: total,
		Status:      OrderStatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// TicketCount returns the total ticket quantity across all lines.
func (o *Order) TicketCount() int {
	n := 0
	for _, t := range o.Tickets {
		n += t.Quantity
	}
	return n
}

// OrderRepository defines the interface for order storage
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*Order, error)
	// ListInRange returns orders created within [from, to]. An empty status
	// returns orders of every status; otherwise only the given status.
	ListInRange(ctx context.Context, from, to time.Time, status string, eventIDs []string) ([]*Order, error)
	SetStatus(ctx context.Context, id, status string) (*Order, error)
}

// OrderService defines order placement and lifecycle operations.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID, eventID string, tickets []TicketLine) (*Order, error)
	ConfirmOrder(ctx context.Context, orderID, userID string) (*Order, error)
	CancelOrder(ctx context.Context, orderID, userID string) (*Order, error)
	ListMyOrders(ctx context.Context, userID string) ([]*Order, error)
}
