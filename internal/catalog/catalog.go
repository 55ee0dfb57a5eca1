package catalog

import (
	"context"
	"errors"

	"tableside/internal/domain"
)

var ErrItemNotFound = errors.New("menu item not found")

// Filter narrows a menu listing. Category and search are orthogonal and may
// be combined; empty fields are ignored.
type Filter struct {
	Category string
	Search   string
}

type Catalog interface {
	Items(ctx context.Context, filter Filter) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	PopularItems(ctx context.Context) ([]domain.MenuItem, error)
	Item(ctx context.Context, id string) (*domain.MenuItem, error)
	IsAvailable(ctx context.Context, id string) (bool, error)
}
