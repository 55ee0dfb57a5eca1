package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/catalog"
	"tableside/internal/domain"
)

func TestMenuService_InitialPageData(t *testing.T) {
	cat := newCatalogMock()
	cat.categories = []string{"mains", "desserts"}
	cat.popular = []domain.MenuItem{{ID: "item-1", Name: "Margherita"}}

	svc := NewMenuService(cat)

	page, err := svc.InitialPageData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mains", "desserts"}, page.Categories)
	require.Len(t, page.PopularItems, 1)
	assert.Equal(t, "item-1", page.PopularItems[0].ID)
}

func TestMenuService_InitialPageData_PropagatesError(t *testing.T) {
	cat := newCatalogMock()
	cat.categoriesErr = errors.New("db down")

	svc := NewMenuService(cat)

	_, err := svc.InitialPageData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get categories")
}

func TestMenuService_ItemWithAvailability(t *testing.T) {
	cat := newCatalogMock()
	cat.items["item-1"] = domain.MenuItem{ID: "item-1", Name: "Margherita", Price: 11.00}
	cat.available["item-1"] = true

	svc := NewMenuService(cat)

	details, err := svc.ItemWithAvailability(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Margherita", details.Item.Name)
	assert.True(t, details.IsAvailable)
}

func TestMenuService_ItemWithAvailability_UnknownItem(t *testing.T) {
	svc := NewMenuService(newCatalogMock())

	_, err := svc.ItemWithAvailability(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}
