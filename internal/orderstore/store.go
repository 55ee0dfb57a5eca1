package orderstore

import (
	"context"
	"errors"
	"time"

	"tableside/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// NewOrder is everything needed to persist an order in one shot. The
// idempotency key guards against duplicate submissions: a second Create with
// the same key returns the first order's id instead of inserting again.
type NewOrder struct {
	UserID              string
	TableID             string
	GroupOrderID        string
	Type                domain.OrderType
	Items               []domain.CartItem
	PickupTime          string
	SpecialInstructions string
	PaymentMethod       string
	IdempotencyKey      string
	Subtotal            float64
	Tax                 float64
	Total               float64
}

// Draft is the partial order shape passed to Validate. Only the fields that
// matter for order-type checks are present.
type Draft struct {
	Type    domain.OrderType
	TableID string
	Items   []domain.CartItem
}

// OutboxEvent is a lifecycle event written in the same transaction as the
// order change it describes, published asynchronously by the relay.
type OutboxEvent struct {
	ID        int64
	OrderID   string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// CartClearJob is a pending compensation: an order was created but its cart
// could not be cleared, so the relay retries until it succeeds.
type CartClearJob struct {
	ID        int64
	Owner     string
	Attempts  int
	CreatedAt time.Time
}

type Store interface {
	Create(ctx context.Context, order NewOrder) (string, error)
	Validate(ctx context.Context, draft Draft) (domain.OrderValidation, error)
	Confirmation(ctx context.Context, orderID string) (*domain.OrderConfirmation, error)
	EstimatePreparation(ctx context.Context, menuItemIDs []string) (int, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error

	UnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id int64) error

	EnqueueCartClear(ctx context.Context, owner string) error
	PendingCartClears(ctx context.Context, limit int) ([]*CartClearJob, error)
	MarkCartCleared(ctx context.Context, id int64) error
}
