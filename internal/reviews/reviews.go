package reviews

import (
	"context"

	"tableside/internal/domain"
)

// Reviews is a read-only view over published menu item reviews.
type Reviews interface {
	ItemReviews(ctx context.Context, menuItemID string) ([]domain.Review, error)
	Stats(ctx context.Context, menuItemID string) (*domain.ReviewStats, error)
}
