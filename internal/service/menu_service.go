package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tableside/internal/catalog"
	"tableside/internal/domain"
)

// MenuService composes read-only catalog lookups. Every call is a fresh
// round trip; nothing is cached at this layer.
type MenuService struct {
	catalog catalog.Catalog
}

func NewMenuService(cat catalog.Catalog) *MenuService {
	return &MenuService{catalog: cat}
}

type PageData struct {
	Categories   []string          `json:"categories"`
	PopularItems []domain.MenuItem `json:"popular_items"`
}

// InitialPageData fetches categories and popular items concurrently; the two
// reads are independent, so completion order does not matter.
func (s *MenuService) InitialPageData(ctx context.Context) (*PageData, error) {
	var page PageData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := s.catalog.Categories(ctx)
		if err != nil {
			return fmt.Errorf("get categories: %w", err)
		}
		page.Categories = categories
		return nil
	})
	g.Go(func() error {
		popular, err := s.catalog.PopularItems(ctx)
		if err != nil {
			return fmt.Errorf("get popular items: %w", err)
		}
		page.PopularItems = popular
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *MenuService) FilteredItems(ctx context.Context, category, search string) ([]domain.MenuItem, error) {
	return s.catalog.Items(ctx, catalog.Filter{Category: category, Search: search})
}

type ItemDetails struct {
	Item        domain.MenuItem `json:"item"`
	IsAvailable bool            `json:"is_available"`
}

// ItemWithAvailability fetches item detail and the availability flag
// concurrently.
func (s *MenuService) ItemWithAvailability(ctx context.Context, menuItemID string) (*ItemDetails, error) {
	var details ItemDetails

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := s.catalog.Item(ctx, menuItemID)
		if err != nil {
			return err
		}
		details.Item = *item
		return nil
	})
	g.Go(func() error {
		available, err := s.catalog.IsAvailable(ctx, menuItemID)
		if err != nil {
			return fmt.Errorf("check availability: %w", err)
		}
		details.IsAvailable = available
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &details, nil
}
