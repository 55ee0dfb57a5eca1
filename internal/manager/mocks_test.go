package manager

import (
	"context"
	"sync"

	"tableside/internal/cartstore"
	"tableside/internal/catalog"
	"tableside/internal/domain"
	"tableside/internal/identity"
	"tableside/internal/orderstore"
	"tableside/internal/tables"
)

type cartStoreFake struct {
	mu    sync.Mutex
	carts map[cartstore.Owner][]domain.CartItem
}

func newCartStoreFake() *cartStoreFake {
	return &cartStoreFake{carts: make(map[cartstore.Owner][]domain.CartItem)}
}

func (f *cartStoreFake) Items(_ context.Context, owner cartstore.Owner) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.carts[owner]
	if !ok {
		return nil, cartstore.ErrCartNotFound
	}
	return items, nil
}

func (f *cartStoreFake) AddItem(_ context.Context, owner cartstore.Owner, item domain.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[owner] = append(f.carts[owner], item)
	return nil
}

func (f *cartStoreFake) UpdateItem(_ context.Context, owner cartstore.Owner, itemID string, patch cartstore.ItemPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[owner]
	for i := range items {
		if items[i].ID == itemID {
			if patch.Quantity != nil {
				items[i].Quantity = *patch.Quantity
			}
			return nil
		}
	}
	return cartstore.ErrItemNotFound
}

func (f *cartStoreFake) RemoveItem(_ context.Context, owner cartstore.Owner, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[owner]
	for i := range items {
		if items[i].ID == itemID {
			f.carts[owner] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return cartstore.ErrItemNotFound
}

func (f *cartStoreFake) Clear(_ context.Context, owner cartstore.Owner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[owner]; !ok {
		return cartstore.ErrCartNotFound
	}
	delete(f.carts, owner)
	return nil
}

type orderStoreFake struct {
	mu      sync.Mutex
	created []orderstore.NewOrder

	createID   string
	validation domain.OrderValidation
	prepTime   int
}

func (f *orderStoreFake) Create(_ context.Context, order orderstore.NewOrder) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, order)
	return f.createID, nil
}

func (f *orderStoreFake) Validate(context.Context, orderstore.Draft) (domain.OrderValidation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validation, nil
}

func (f *orderStoreFake) Confirmation(context.Context, string) (*domain.OrderConfirmation, error) {
	return nil, orderstore.ErrOrderNotFound
}

func (f *orderStoreFake) EstimatePreparation(context.Context, []string) (int, error) {
	return f.prepTime, nil
}

func (f *orderStoreFake) UpdateStatus(context.Context, string, domain.OrderStatus) error {
	return nil
}

func (f *orderStoreFake) UnprocessedEvents(context.Context, int) ([]*orderstore.OutboxEvent, error) {
	return nil, nil
}

func (f *orderStoreFake) MarkEventProcessed(context.Context, int64) error { return nil }

func (f *orderStoreFake) EnqueueCartClear(context.Context, string) error { return nil }

func (f *orderStoreFake) PendingCartClears(context.Context, int) ([]*orderstore.CartClearJob, error) {
	return nil, nil
}

func (f *orderStoreFake) MarkCartCleared(context.Context, int64) error { return nil }

type scheduleFake struct {
	slots     []domain.TimeSlot
	timeValid bool
	pickup    string
}

func (f *scheduleFake) AvailableSlots(context.Context) ([]domain.TimeSlot, error) {
	return f.slots, nil
}

func (f *scheduleFake) ValidatePickupTime(context.Context, string) (bool, error) {
	return f.timeValid, nil
}

func (f *scheduleFake) EstimatedPickup(context.Context, int) (string, error) {
	return f.pickup, nil
}

type catalogFake struct {
	mu         sync.Mutex
	items      map[string]domain.MenuItem
	categories []string
	popular    []domain.MenuItem
	available  map[string]bool
}

func newCatalogFake() *catalogFake {
	return &catalogFake{
		items:     make(map[string]domain.MenuItem),
		available: make(map[string]bool),
	}
}

func (f *catalogFake) Items(context.Context, catalog.Filter) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.MenuItem, 0, len(f.items))
	for _, item := range f.items {
		result = append(result, item)
	}
	return result, nil
}

func (f *catalogFake) Categories(context.Context) ([]string, error) {
	return f.categories, nil
}

func (f *catalogFake) PopularItems(context.Context) ([]domain.MenuItem, error) {
	return f.popular, nil
}

func (f *catalogFake) Item(_ context.Context, id string) (*domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	return &item, nil
}

func (f *catalogFake) IsAvailable(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available[id], nil
}

type tablesFake struct {
	mu           sync.Mutex
	tablesByQR   map[string]*domain.TableSeating
	statuses     map[string]bool
	groups       map[string]*domain.GroupOrder
	groupsByCode map[string]*domain.GroupOrder
	nextGroup    *domain.GroupOrder
}

func newTablesFake() *tablesFake {
	return &tablesFake{
		tablesByQR:   make(map[string]*domain.TableSeating),
		statuses:     make(map[string]bool),
		groups:       make(map[string]*domain.GroupOrder),
		groupsByCode: make(map[string]*domain.GroupOrder),
	}
}

func (f *tablesFake) TableByQR(_ context.Context, qrCode string) (*domain.TableSeating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tablesByQR[qrCode]
	if !ok {
		return nil, tables.ErrTableNotFound
	}
	return table, nil
}

func (f *tablesFake) ValidateTableStatus(_ context.Context, tableID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[tableID], nil
}

func (f *tablesFake) CreateGroupOrder(_ context.Context, tableID, _ string) (*domain.GroupOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group := f.nextGroup
	group.TableID = tableID
	f.groups[group.ID] = group
	f.groupsByCode[group.JoinCode] = group
	return group, nil
}

func (f *tablesFake) JoinGroupOrder(_ context.Context, joinCode, _ string) (*domain.GroupOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groupsByCode[joinCode]
	if !ok {
		return nil, tables.ErrInvalidJoinCode
	}
	return group, nil
}

func (f *tablesFake) GroupOrder(_ context.Context, groupID string) (*domain.GroupOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[groupID]
	if !ok {
		return nil, tables.ErrGroupOrderNotFound
	}
	return group, nil
}

type identityFake struct {
	users map[string]*domain.User
	prefs map[string]*domain.UserPreferences
}

func newIdentityFake() *identityFake {
	return &identityFake{
		users: make(map[string]*domain.User),
		prefs: make(map[string]*domain.UserPreferences),
	}
}

func (f *identityFake) UserBySession(_ context.Context, token string) (*domain.User, error) {
	user, ok := f.users[token]
	if !ok {
		return nil, identity.ErrNoUser
	}
	return user, nil
}

func (f *identityFake) Preferences(_ context.Context, userID string) (*domain.UserPreferences, error) {
	return f.prefs[userID], nil
}

type reviewsFake struct {
	reviews map[string][]domain.Review
	stats   map[string]*domain.ReviewStats
}

func newReviewsFake() *reviewsFake {
	return &reviewsFake{
		reviews: make(map[string][]domain.Review),
		stats:   make(map[string]*domain.ReviewStats),
	}
}

func (f *reviewsFake) ItemReviews(_ context.Context, menuItemID string) ([]domain.Review, error) {
	return f.reviews[menuItemID], nil
}

func (f *reviewsFake) Stats(_ context.Context, menuItemID string) (*domain.ReviewStats, error) {
	stats, ok := f.stats[menuItemID]
	if !ok {
		return &domain.ReviewStats{}, nil
	}
	return stats, nil
}
