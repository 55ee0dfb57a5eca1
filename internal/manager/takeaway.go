package manager

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableside/internal/catalog"
	"tableside/internal/domain"
	"tableside/internal/identity"
	"tableside/internal/reviews"
	"tableside/internal/schedule"
	"tableside/internal/service"
)

// TakeawayManager is the page facade for the takeaway flow: browse the menu,
// build a cart, pick a pickup slot, place the order.
type TakeawayManager struct {
	menu     *service.MenuService
	cart     *service.CartService
	order    *service.OrderService
	catalog  catalog.Catalog
	schedule schedule.Schedule
	reviews  reviews.Reviews
}

func NewTakeawayManager(
	menu *service.MenuService,
	cart *service.CartService,
	order *service.OrderService,
	cat catalog.Catalog,
	sched schedule.Schedule,
	rev reviews.Reviews,
) *TakeawayManager {
	return &TakeawayManager{
		menu:     menu,
		cart:     cart,
		order:    order,
		catalog:  cat,
		schedule: sched,
		reviews:  rev,
	}
}

func (m *TakeawayManager) InitializePage(ctx context.Context) (*service.PageData, error) {
	return m.menu.InitialPageData(ctx)
}

func (m *TakeawayManager) FilterByCategory(ctx context.Context, category string) ([]domain.MenuItem, error) {
	return m.menu.FilteredItems(ctx, category, "")
}

func (m *TakeawayManager) SearchItems(ctx context.Context, query string) ([]domain.MenuItem, error) {
	return m.menu.FilteredItems(ctx, "", query)
}

func (m *TakeawayManager) ItemDetails(ctx context.Context, menuItemID string) (*service.ItemDetails, error) {
	return m.menu.ItemWithAvailability(ctx, menuItemID)
}

type ItemReviews struct {
	Reviews []domain.Review    `json:"reviews"`
	Stats   domain.ReviewStats `json:"stats"`
}

func (m *TakeawayManager) ItemReviews(ctx context.Context, menuItemID string) (*ItemReviews, error) {
	var result ItemReviews

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		revs, err := m.reviews.ItemReviews(ctx, menuItemID)
		if err != nil {
			return fmt.Errorf("get reviews: %w", err)
		}
		result.Reviews = revs
		return nil
	})
	g.Go(func() error {
		stats, err := m.reviews.Stats(ctx, menuItemID)
		if err != nil {
			return fmt.Errorf("get review stats: %w", err)
		}
		result.Stats = *stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

type AddToCartInput struct {
	MenuItemID          string
	Quantity            int
	Customizations      domain.Customizations
	SpecialInstructions string
}

// AddToCart resolves the menu item so the cart line is priced from the
// current catalog state, then hands it to the cart service.
func (m *TakeawayManager) AddToCart(ctx context.Context, sess Session, in AddToCartInput) (*domain.CartItem, error) {
	if sess.UserID == "" {
		return nil, identity.ErrNoUser
	}

	item, err := m.catalog.Item(ctx, in.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	return m.cart.AddItem(ctx, sess.UserID, service.AddItemInput{
		MenuItem:            *item,
		Quantity:            in.Quantity,
		Customizations:      in.Customizations,
		SpecialInstructions: in.SpecialInstructions,
	})
}

func (m *TakeawayManager) UpdateCartItemQuantity(ctx context.Context, sess Session, itemID string, quantity int) error {
	return m.cart.UpdateQuantity(ctx, sess.UserID, itemID, quantity)
}

func (m *TakeawayManager) RemoveCartItem(ctx context.Context, sess Session, itemID string) error {
	return m.cart.RemoveItem(ctx, sess.UserID, itemID)
}

// CartSummary totals the personal cart with the flat takeaway tax rate.
// Takeaway has no group component, so the group fields stay zero.
func (m *TakeawayManager) CartSummary(ctx context.Context, sess Session) (*domain.OrderSummary, error) {
	items, err := m.cart.CurrentCart(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	totals := domain.Totals(items)
	return &domain.OrderSummary{
		PersonalItems: items,
		PersonalTotal: totals.Subtotal,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
	}, nil
}

func (m *TakeawayManager) AvailablePickupTimes(ctx context.Context) ([]domain.TimeSlot, error) {
	return m.schedule.AvailableSlots(ctx)
}

func (m *TakeawayManager) ValidatePickupTime(ctx context.Context, pickupTime string) (bool, error) {
	return m.schedule.ValidatePickupTime(ctx, pickupTime)
}

func (m *TakeawayManager) PickupTimeInformation(ctx context.Context, sess Session) (*service.TimeInformation, error) {
	return m.order.TimeInformation(ctx, sess.UserID)
}

// EstimatedPreparationTime is the ready-time label for the current cart.
func (m *TakeawayManager) EstimatedPreparationTime(ctx context.Context, sess Session) (string, error) {
	info, err := m.order.TimeInformation(ctx, sess.UserID)
	if err != nil {
		return "", err
	}
	return info.EstimatedReadyTime, nil
}

func (m *TakeawayManager) ValidateTakeawayOrder(ctx context.Context, sess Session, pickupTime string) (domain.OrderValidation, error) {
	if sess.UserID == "" {
		return domain.OrderValidation{}, identity.ErrNoUser
	}

	items, err := m.cart.CurrentCart(ctx, sess.UserID)
	if err != nil {
		return domain.OrderValidation{}, err
	}
	return m.order.ValidateTakeawayOrder(ctx, items, pickupTime)
}

type PlaceTakeawayInput struct {
	PickupTime          string
	SpecialInstructions string
	PaymentMethod       string
	IdempotencyKey      string
}

// PlaceTakeawayOrder places the user's current cart as a takeaway order.
// Validation rejections come back as *service.ValidationError.
func (m *TakeawayManager) PlaceTakeawayOrder(ctx context.Context, sess Session, in PlaceTakeawayInput) (string, error) {
	if sess.UserID == "" {
		return "", identity.ErrNoUser
	}

	items, err := m.cart.CurrentCart(ctx, sess.UserID)
	if err != nil {
		return "", err
	}

	return m.order.PlaceOrder(ctx, sess.UserID, service.PlaceOrderInput{
		Items:               items,
		PickupTime:          in.PickupTime,
		SpecialInstructions: in.SpecialInstructions,
		PaymentMethod:       in.PaymentMethod,
		IdempotencyKey:      in.IdempotencyKey,
	})
}

func (m *TakeawayManager) OrderConfirmation(ctx context.Context, orderID string) (*domain.OrderConfirmation, error) {
	return m.order.Confirmation(ctx, orderID)
}
