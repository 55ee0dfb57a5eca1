package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"tableside/internal/cartstore"
	"tableside/internal/domain"
	"tableside/internal/identity"
	"tableside/internal/orderstore"
	"tableside/internal/schedule"
)

const pickupTimeUnavailable = "Selected pickup time is no longer available"

// ValidationError carries the first human-readable validation message for a
// rejected order. It is an expected business outcome, not a system fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// OrderService turns a validated cart into a persisted order and answers
// pickup-time questions for takeaway flows.
type OrderService struct {
	orders   orderstore.Store
	schedule schedule.Schedule
	carts    cartstore.Store
	log      *slog.Logger
}

func NewOrderService(orders orderstore.Store, sched schedule.Schedule, carts cartstore.Store, log *slog.Logger) *OrderService {
	return &OrderService{orders: orders, schedule: sched, carts: carts, log: log}
}

// ValidateTakeawayOrder runs the generic order validation and the pickup-time
// check concurrently. An unavailable time wins outright: the result then
// carries only the pickup message, regardless of other findings.
func (s *OrderService) ValidateTakeawayOrder(ctx context.Context, items []domain.CartItem, pickupTime string) (domain.OrderValidation, error) {
	var (
		validation domain.OrderValidation
		timeOK     bool
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.orders.Validate(ctx, orderstore.Draft{
			Type:  domain.OrderTypeTakeaway,
			Items: items,
		})
		if err != nil {
			return fmt.Errorf("validate order: %w", err)
		}
		validation = v
		return nil
	})
	g.Go(func() error {
		ok, err := s.schedule.ValidatePickupTime(ctx, pickupTime)
		if err != nil {
			return fmt.Errorf("validate pickup time: %w", err)
		}
		timeOK = ok
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.OrderValidation{}, err
	}

	if !timeOK {
		return domain.Invalid(pickupTimeUnavailable), nil
	}
	return validation, nil
}

type PlaceOrderInput struct {
	Items               []domain.CartItem
	PickupTime          string
	SpecialInstructions string
	PaymentMethod       string
	IdempotencyKey      string
}

// PlaceOrder validates and persists a takeaway order for the user, then
// clears their cart. Validation failure returns a *ValidationError before the
// order store is ever touched. A cart that fails to clear does not fail the
// placement: the clear is enqueued as a compensation job and retried later.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (string, error) {
	if userID == "" {
		return "", identity.ErrNoUser
	}

	validation, err := s.ValidateTakeawayOrder(ctx, in.Items, in.PickupTime)
	if err != nil {
		return "", err
	}
	if !validation.IsValid() {
		return "", &ValidationError{Message: validation.Errors[0]}
	}

	totals := domain.Totals(in.Items)
	orderID, err := s.orders.Create(ctx, orderstore.NewOrder{
		UserID:              userID,
		Type:                domain.OrderTypeTakeaway,
		Items:               in.Items,
		PickupTime:          in.PickupTime,
		SpecialInstructions: in.SpecialInstructions,
		PaymentMethod:       in.PaymentMethod,
		IdempotencyKey:      in.IdempotencyKey,
		Subtotal:            totals.Subtotal,
		Tax:                 totals.Tax,
		Total:               totals.Total,
	})
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	s.clearCartOrCompensate(ctx, cartstore.UserOwner(userID), orderID)
	return orderID, nil
}

// clearCartOrCompensate empties the cart after a successful placement. The
// order already exists, so failures here never surface to the caller; the
// clear is handed to the compensation queue instead.
func (s *OrderService) clearCartOrCompensate(ctx context.Context, owner cartstore.Owner, orderID string) {
	err := s.carts.Clear(ctx, owner)
	if err == nil || errors.Is(err, cartstore.ErrCartNotFound) {
		return
	}

	s.log.Warn("cart clear failed after order creation, enqueueing retry",
		"order_id", orderID, "owner", string(owner), "error", err)
	if err := s.orders.EnqueueCartClear(ctx, string(owner)); err != nil {
		s.log.Error("failed to enqueue cart clear job",
			"order_id", orderID, "owner", string(owner), "error", err)
	}
}

type TimeInformation struct {
	AvailableSlots     []domain.TimeSlot `json:"available_slots"`
	EstimatedReadyTime string            `json:"estimated_ready_time"`
}

// TimeInformation derives the cart's menu item ids and fetches open pickup
// slots and an estimated ready time for those items concurrently.
func (s *OrderService) TimeInformation(ctx context.Context, userID string) (*TimeInformation, error) {
	if userID == "" {
		return nil, identity.ErrNoUser
	}

	items, err := s.carts.Items(ctx, cartstore.UserOwner(userID))
	if err != nil && !errors.Is(err, cartstore.ErrCartNotFound) {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	menuItemIDs := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			menuItemIDs = append(menuItemIDs, item.MenuItemID)
		}
	}

	var info TimeInformation
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slots, err := s.schedule.AvailableSlots(ctx)
		if err != nil {
			return fmt.Errorf("get available slots: %w", err)
		}
		info.AvailableSlots = slots
		return nil
	})
	g.Go(func() error {
		prep, err := s.orders.EstimatePreparation(ctx, menuItemIDs)
		if err != nil {
			return fmt.Errorf("estimate preparation: %w", err)
		}
		ready, err := s.schedule.EstimatedPickup(ctx, prep)
		if err != nil {
			return fmt.Errorf("estimate pickup: %w", err)
		}
		info.EstimatedReadyTime = ready
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &info, nil
}

type DineInOrderInput struct {
	TableID        string
	GroupOrderID   string
	Items          []domain.CartItem
	IdempotencyKey string
}

// ConfirmDineInOrder persists a dine-in order tagged with the active group
// order, then clears the diner's personal cart. The shared group cart is left
// alone: other diners at the table are still ordering against it.
func (s *OrderService) ConfirmDineInOrder(ctx context.Context, userID string, in DineInOrderInput) (string, error) {
	if userID == "" {
		return "", identity.ErrNoUser
	}

	validation, err := s.orders.Validate(ctx, orderstore.Draft{
		Type:    domain.OrderTypeDineIn,
		TableID: in.TableID,
		Items:   in.Items,
	})
	if err != nil {
		return "", fmt.Errorf("validate order: %w", err)
	}
	if !validation.IsValid() {
		return "", &ValidationError{Message: validation.Errors[0]}
	}

	subtotal := domain.Sum(in.Items)
	orderID, err := s.orders.Create(ctx, orderstore.NewOrder{
		UserID:         userID,
		TableID:        in.TableID,
		GroupOrderID:   in.GroupOrderID,
		Type:           domain.OrderTypeDineIn,
		Items:          in.Items,
		IdempotencyKey: in.IdempotencyKey,
		Subtotal:       subtotal,
		Tax:            0, // TODO: charge dine-in tax once the per-channel tax policy is settled
		Total:          subtotal,
	})
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	s.clearCartOrCompensate(ctx, cartstore.UserOwner(userID), orderID)
	return orderID, nil
}

func (s *OrderService) Confirmation(ctx context.Context, orderID string) (*domain.OrderConfirmation, error) {
	return s.orders.Confirmation(ctx, orderID)
}
