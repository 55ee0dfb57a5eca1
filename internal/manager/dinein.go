package manager

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"tableside/internal/catalog"
	"tableside/internal/domain"
	"tableside/internal/identity"
	"tableside/internal/reviews"
	"tableside/internal/service"
	"tableside/internal/tables"
)

// DineInManager is the page facade for the at-table flow: scan a QR code,
// start or join a group order, contribute to the shared cart, confirm a
// personal order against it.
type DineInManager struct {
	menu    *service.MenuService
	cart    *service.CartService
	order   *service.OrderService
	catalog catalog.Catalog
	tables  tables.Tables
	ident   identity.Identity
	reviews reviews.Reviews
}

func NewDineInManager(
	menu *service.MenuService,
	cart *service.CartService,
	order *service.OrderService,
	cat catalog.Catalog,
	tab tables.Tables,
	ident identity.Identity,
	rev reviews.Reviews,
) *DineInManager {
	return &DineInManager{
		menu:    menu,
		cart:    cart,
		order:   order,
		catalog: cat,
		tables:  tab,
		ident:   ident,
		reviews: rev,
	}
}

// QRScanResult is a result object: scan failures are expected outcomes shown
// to the diner, not faults. Error returns are reserved for system problems.
type QRScanResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Table   *domain.TableSeating `json:"table,omitempty"`
}

func (m *DineInManager) HandleQRScan(ctx context.Context, qrCode string) (*QRScanResult, error) {
	if qrCode == "" {
		return &QRScanResult{Message: "Invalid QR code"}, nil
	}

	table, err := m.tables.TableByQR(ctx, qrCode)
	if errors.Is(err, tables.ErrTableNotFound) {
		return &QRScanResult{Message: "Table not found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve table: %w", err)
	}

	available, err := m.tables.ValidateTableStatus(ctx, table.ID)
	if err != nil {
		return nil, fmt.Errorf("validate table status: %w", err)
	}
	if !available {
		return &QRScanResult{Message: "Table is not available"}, nil
	}

	return &QRScanResult{Success: true, Table: table}, nil
}

// InitializeGroupOrder opens a new group order at the session's table. The
// caller becomes the group's creator and gets the join code to share.
func (m *DineInManager) InitializeGroupOrder(ctx context.Context, sess Session) (*domain.GroupOrder, error) {
	if sess.UserID == "" {
		return nil, identity.ErrNoUser
	}
	if sess.TableID == "" {
		return nil, ErrNoTable
	}
	return m.tables.CreateGroupOrder(ctx, sess.TableID, sess.UserID)
}

func (m *DineInManager) JoinGroupOrder(ctx context.Context, sess Session, joinCode string) (*domain.GroupOrder, error) {
	if sess.UserID == "" {
		return nil, identity.ErrNoUser
	}
	return m.tables.JoinGroupOrder(ctx, joinCode, sess.UserID)
}

func (m *DineInManager) GroupItems(ctx context.Context, sess Session) ([]domain.CartItem, error) {
	if sess.GroupOrderID == "" {
		return nil, ErrNoActiveGroupOrder
	}
	return m.cart.GroupItems(ctx, sess.GroupOrderID)
}

// OrderSummary aggregates the diner's personal cart and the table's shared
// cart into one view. The two reads are independent and run concurrently.
func (m *DineInManager) OrderSummary(ctx context.Context, sess Session) (*domain.OrderSummary, error) {
	if sess.UserID == "" {
		return nil, identity.ErrNoUser
	}
	if sess.GroupOrderID == "" {
		return nil, ErrNoActiveGroupOrder
	}

	var summary domain.OrderSummary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := m.cart.CurrentCart(ctx, sess.UserID)
		if err != nil {
			return err
		}
		summary.PersonalItems = items
		return nil
	})
	g.Go(func() error {
		items, err := m.cart.GroupItems(ctx, sess.GroupOrderID)
		if err != nil {
			return err
		}
		summary.GroupItems = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.PersonalTotal = domain.Sum(summary.PersonalItems)
	summary.GroupTotal = domain.Sum(summary.GroupItems)
	summary.Subtotal = summary.PersonalTotal + summary.GroupTotal
	summary.Tax = 0 // TODO: charge dine-in tax once the per-channel tax policy is settled
	summary.Total = summary.Subtotal + summary.Tax
	return &summary, nil
}

// ValidateOrderItems checks every cart line's current availability
// concurrently. One unavailable line rejects the whole order.
func (m *DineInManager) ValidateOrderItems(ctx context.Context, items []domain.CartItem) (domain.OrderValidation, error) {
	available := make([]bool, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			ok, err := m.catalog.IsAvailable(ctx, item.MenuItemID)
			if err != nil {
				return fmt.Errorf("check availability of %s: %w", item.MenuItemID, err)
			}
			available[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.OrderValidation{}, err
	}

	for _, ok := range available {
		if !ok {
			return domain.Invalid("Some items are no longer available"), nil
		}
	}
	return domain.Valid(), nil
}

// ConfirmPersonalOrder places the diner's personal cart as a dine-in order
// tagged with the active group order. Every line must still be available.
func (m *DineInManager) ConfirmPersonalOrder(ctx context.Context, sess Session) (string, error) {
	if sess.UserID == "" {
		return "", identity.ErrNoUser
	}
	if sess.TableID == "" {
		return "", ErrNoTable
	}

	items, err := m.cart.CurrentCart(ctx, sess.UserID)
	if err != nil {
		return "", err
	}

	validation, err := m.ValidateOrderItems(ctx, items)
	if err != nil {
		return "", err
	}
	if !validation.IsValid() {
		return "", &service.ValidationError{Message: validation.Errors[0]}
	}

	return m.order.ConfirmDineInOrder(ctx, sess.UserID, service.DineInOrderInput{
		TableID:      sess.TableID,
		GroupOrderID: sess.GroupOrderID,
		Items:        items,
	})
}

type MenuView struct {
	Categories []string          `json:"categories"`
	Items      []domain.MenuItem `json:"items"`
}

func (m *DineInManager) MenuWithCategories(ctx context.Context) (*MenuView, error) {
	var view MenuView

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := m.menu.InitialPageData(ctx)
		if err != nil {
			return err
		}
		view.Categories = page.Categories
		return nil
	})
	g.Go(func() error {
		items, err := m.menu.FilteredItems(ctx, "", "")
		if err != nil {
			return err
		}
		view.Items = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

// ApplyUserPreferences drops menu items containing any allergen from the
// user's dietary profile. Without a user or a profile the list passes through
// untouched.
func (m *DineInManager) ApplyUserPreferences(ctx context.Context, sess Session, items []domain.MenuItem) ([]domain.MenuItem, error) {
	if sess.UserID == "" {
		return items, nil
	}

	prefs, err := m.ident.Preferences(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if prefs == nil || len(prefs.Allergens) == 0 {
		return items, nil
	}

	filtered := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if !containsAny(item.Allergens, prefs.Allergens) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if slices.Contains(haystack, n) {
			return true
		}
	}
	return false
}

type ItemDetailsWithReviews struct {
	Item        domain.MenuItem    `json:"item"`
	IsAvailable bool               `json:"is_available"`
	Reviews     []domain.Review    `json:"reviews"`
	Stats       domain.ReviewStats `json:"stats"`
}

func (m *DineInManager) ItemDetailsWithReviews(ctx context.Context, menuItemID string) (*ItemDetailsWithReviews, error) {
	var result ItemDetailsWithReviews

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		details, err := m.menu.ItemWithAvailability(ctx, menuItemID)
		if err != nil {
			return err
		}
		result.Item = details.Item
		result.IsAvailable = details.IsAvailable
		return nil
	})
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
