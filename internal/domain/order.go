package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusPrepared  OrderStatus = "prepared"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// transitions is the adjacency table of the order lifecycle. Anything not
// listed here is rejected, regardless of channel.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusPrepared, OrderStatusCancelled},
	OrderStatusPrepared:  {OrderStatusServed, OrderStatusCancelled},
	OrderStatusServed:    {OrderStatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// Transition validates a status change against the adjacency table.
func Transition(from, to OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
)

type Order struct {
	ID                  string      `json:"id"`
	OrderNumber         string      `json:"order_number"`
	UserID              string      `json:"user_id"`
	TableID             string      `json:"table_id,omitempty"`
	GroupOrderID        string      `json:"group_order_id,omitempty"`
	Type                OrderType   `json:"type"`
	Status              OrderStatus `json:"status"`
	Subtotal            float64     `json:"subtotal"`
	Tax                 float64     `json:"tax"`
	Total               float64     `json:"total"`
	PickupTime          string      `json:"pickup_time,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	PaymentMethod       string      `json:"payment_method,omitempty"`
	Items               []OrderItem `json:"items"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID                  string         `json:"id"`
	MenuItemID          string         `json:"menu_item_id"`
	Quantity            int            `json:"quantity"`
	Price               float64        `json:"price"` // price at order time
	Customizations      Customizations `json:"customizations,omitempty"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
}

// OrderConfirmation is the post-placement detail shown to the customer.
type OrderConfirmation struct {
	OrderID        string      `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	Status         OrderStatus `json:"status"`
	Type           OrderType   `json:"type"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	Tax            float64     `json:"tax"`
	Total          float64     `json:"total"`
	PickupTime     string      `json:"pickup_time,omitempty"`
	EstimatedReady string      `json:"estimated_ready,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
