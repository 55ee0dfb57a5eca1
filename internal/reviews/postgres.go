package reviews

import (
	"context"
	"database/sql"
	"fmt"

	"tableside/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ItemReviews(ctx context.Context, menuItemID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, menu_item_id, rating, COALESCE(comment, ''), created_at
		FROM reviews
		WHERE menu_item_id = $1 AND is_published
		ORDER BY created_at DESC`, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.MenuItemID, &rev.Rating,
			&rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		result = append(result, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

func (r *Repository) Stats(ctx context.Context, menuItemID string) (*domain.ReviewStats, error) {
	var stats domain.ReviewStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE menu_item_id = $1 AND is_published`, menuItemID).Scan(
		&stats.Count, &stats.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("query review stats: %w", err)
	}
	return &stats, nil
}
