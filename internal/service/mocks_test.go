package service

import (
	"context"
	"sync"

	"tableside/internal/cartstore"
	"tableside/internal/catalog"
	"tableside/internal/domain"
	"tableside/internal/orderstore"
)

type cartStoreMock struct {
	mu    sync.Mutex
	carts map[cartstore.Owner][]domain.CartItem

	itemsErr  error
	addErr    error
	updateErr error
	removeErr error
	clearErr  error

	clearedOwners []cartstore.Owner
}

func newCartStoreMock() *cartStoreMock {
	return &cartStoreMock{carts: make(map[cartstore.Owner][]domain.CartItem)}
}

func (m *cartStoreMock) Items(_ context.Context, owner cartstore.Owner) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	items, ok := m.carts[owner]
	if !ok {
		return nil, cartstore.ErrCartNotFound
	}
	return items, nil
}

func (m *cartStoreMock) AddItem(_ context.Context, owner cartstore.Owner, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.carts[owner] = append(m.carts[owner], item)
	return nil
}

func (m *cartStoreMock) UpdateItem(_ context.Context, owner cartstore.Owner, itemID string, patch cartstore.ItemPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	items, ok := m.carts[owner]
	if !ok {
		return cartstore.ErrCartNotFound
	}
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

func (m *cartStoreMock) RemoveItem(_ context.Context, owner cartstore.Owner, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	items := m.carts[owner]
	for i := range items {
		if items[i].ID == itemID {
			m.carts[owner] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return cartstore.ErrItemNotFound
}

func (m *cartStoreMock) Clear(_ context.Context, owner cartstore.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedOwners = append(m.clearedOwners, owner)
	if _, ok := m.carts[owner]; !ok {
		return cartstore.ErrCartNotFound
	}
	delete(m.carts, owner)
	return nil
}

type orderStoreMock struct {
	mu      sync.Mutex
	created []orderstore.NewOrder

	createID   string
	createErr  error
	validation domain.OrderValidation
	prepTime   int
	enqueueErr error
	enqueued   []string
}

func (m *orderStoreMock) Create(_ context.Context, order orderstore.NewOrder) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, order)
	return m.createID, nil
}

func (m *orderStoreMock) Validate(context.Context, orderstore.Draft) (domain.OrderValidation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validation, nil
}

func (m *orderStoreMock) Confirmation(context.Context, string) (*domain.OrderConfirmation, error) {
	return nil, orderstore.ErrOrderNotFound
}

func (m *orderStoreMock) EstimatePreparation(context.Context, []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepTime, nil
}

func (m *orderStoreMock) UpdateStatus(context.Context, string, domain.OrderStatus) error {
	return nil
}

func (m *orderStoreMock) UnprocessedEvents(context.Context, int) ([]*orderstore.OutboxEvent, error) {
	return nil, nil
}

func (m *orderStoreMock) MarkEventProcessed(context.Context, int64) error {
	return nil
}

func (m *orderStoreMock) EnqueueCartClear(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, owner)
	return nil
}

func (m *orderStoreMock) PendingCartClears(context.Context, int) ([]*orderstore.CartClearJob, error) {
	return nil, nil
}

func (m *orderStoreMock) MarkCartCleared(context.Context, int64) error {
	return nil
}

type scheduleMock struct {
	slots     []domain.TimeSlot
	timeValid bool
	pickup    string
	slotsErr  error
}

func (m *scheduleMock) AvailableSlots(context.Context) ([]domain.TimeSlot, error) {
	if m.slotsErr != nil {
		return nil, m.slotsErr
	}
	return m.slots, nil
}

func (m *scheduleMock) ValidatePickupTime(context.Context, string) (bool, error) {
	return m.timeValid, nil
}

func (m *scheduleMock) EstimatedPickup(context.Context, int) (string, error) {
	return m.pickup, nil
}

type catalogMock struct {
	mu         sync.Mutex
	items      map[string]domain.MenuItem
	categories []string
	popular    []domain.MenuItem
	available  map[string]bool

	itemsErr      error
	categoriesErr error
}

func newCatalogMock() *catalogMock {
	return &catalogMock{
		items:     make(map[string]domain.MenuItem),
		available: make(map[string]bool),
	}
}

func (m *catalogMock) Items(context.Context, catalog.Filter) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	result := make([]domain.MenuItem, 0, len(m.items))
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *catalogMock) Categories(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	return m.categories, nil
}

func (m *catalogMock) PopularItems(context.Context) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popular, nil
}

func (m *catalogMock) Item(_ context.Context, id string) (*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	return &item, nil
}

func (m *catalogMock) IsAvailable(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available[id], nil
}
