package service

import (
	"context"
	"io"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/cartstore"
	"tableside/internal/domain"
	"tableside/internal/identity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func takeawayCart() []domain.CartItem {
	return []domain.CartItem{
		{ID: "line-1", MenuItemID: "item-1", Quantity: 1, Price: 24.99},
	}
}

func TestValidateTakeawayOrder_Valid(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Valid()}
	sched := &scheduleMock{timeValid: true}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	validation, err := svc.ValidateTakeawayOrder(context.Background(), takeawayCart(), "18:30")
	require.NoError(t, err)
	assert.True(t, validation.IsValid())
}

func TestValidateTakeawayOrder_InvalidTimeMasksOtherErrors(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Invalid("Quantity must be positive")}
	sched := &scheduleMock{timeValid: false}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	validation, err := svc.ValidateTakeawayOrder(context.Background(), takeawayCart(), "03:00")
	require.NoError(t, err)

	assert.False(t, validation.IsValid())
	assert.Equal(t, []string{"Selected pickup time is no longer available"}, validation.Errors)
}

func TestValidateTakeawayOrder_GenericErrorsPassThrough(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Invalid("Quantity must be positive")}
	sched := &scheduleMock{timeValid: true}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	validation, err := svc.ValidateTakeawayOrder(context.Background(), takeawayCart(), "18:30")
	require.NoError(t, err)
	assert.Equal(t, []string{"Quantity must be positive"}, validation.Errors)
}

func TestPlaceOrder_NoUser(t *testing.T) {
	svc := NewOrderService(&orderStoreMock{}, &scheduleMock{}, newCartStoreMock(), discardLogger())

	_, err := svc.PlaceOrder(context.Background(), "", PlaceOrderInput{Items: takeawayCart()})
	assert.ErrorIs(t, err, identity.ErrNoUser)
}

func TestPlaceOrder_InvalidTimeNeverCreatesOrder(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Valid()}
	sched := &scheduleMock{timeValid: false}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		Items:      takeawayCart(),
		PickupTime: "03:00",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Selected pickup time is no longer available", verr.Message)
	assert.Empty(t, orders.created)
}

func TestPlaceOrder_CreatesOrderAndClearsCart(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Valid(), createID: "order-1"}
	sched := &scheduleMock{timeValid: true}
	carts := newCartStoreMock()
	carts.carts[cartstore.UserOwner("user-1")] = takeawayCart()
	svc := NewOrderService(orders, sched, carts, discardLogger())

	orderID, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		Items:          takeawayCart(),
		PickupTime:     "18:30",
		PaymentMethod:  "card",
		IdempotencyKey: "attempt-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", orderID)

	require.Len(t, orders.created, 1)
	created := orders.created[0]
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, domain.OrderTypeTakeaway, created.Type)
	assert.Equal(t, "attempt-1", created.IdempotencyKey)
	assert.InDelta(t, 24.99, created.Subtotal, 0.001)
	assert.InDelta(t, 27.489, created.Total, 0.001)

	_, ok := carts.carts[cartstore.UserOwner("user-1")]
	assert.False(t, ok, "cart should be cleared after placement")
}

func TestPlaceOrder_ClearFailureEnqueuesCompensation(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Valid(), createID: "order-1"}
	sched := &scheduleMock{timeValid: true}
	carts := newCartStoreMock()
	carts.clearErr = errors.New("mongo unreachable")
	svc := NewOrderService(orders, sched, carts, discardLogger())

	orderID, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		Items:      takeawayCart(),
		PickupTime: "18:30",
	})
	require.NoError(t, err, "clear failure must not fail the placement")
	assert.Equal(t, "order-1", orderID)

	assert.Equal(t, []string{"user:user-1"}, orders.enqueued)
}

func TestPlaceOrder_CreateFailurePropagates(t *testing.T) {
	orders := &orderStoreMock{validation: domain.Valid(), createErr: errors.New("pg down")}
	sched := &scheduleMock{timeValid: true}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		Items:      takeawayCart(),
		PickupTime: "18:30",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestTimeInformation(t *testing.T) {
	orders := &orderStoreMock{prepTime: 25}
	sched := &scheduleMock{
		slots:  []domain.TimeSlot{{ID: "18:30", Time: "18:30", IsAvailable: true}},
		pickup: "18:45",
	}
	carts := newCartStoreMock()
	carts.carts[cartstore.UserOwner("user-1")] = []domain.CartItem{
		{ID: "line-1", MenuItemID: "item-1", Quantity: 1},
		{ID: "line-2", MenuItemID: "item-1", Quantity: 2},
	}
	svc := NewOrderService(orders, sched, carts, discardLogger())

	info, err := svc.TimeInformation(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, info.AvailableSlots, 1)
	assert.Equal(t, "18:45", info.EstimatedReadyTime)
}

func TestTimeInformation_EmptyCart(t *testing.T) {
	orders := &orderStoreMock{prepTime: 0}
	sched := &scheduleMock{pickup: "17:00"}
	svc := NewOrderService(orders, sched, newCartStoreMock(), discardLogger())

	info, err := svc.TimeInformation(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "17:00", info.EstimatedReadyTime)
}
