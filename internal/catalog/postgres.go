package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/internal/domain"
)

const itemColumns = `id, name, COALESCE(description, ''), price, category,
	COALESCE(image_url, ''), COALESCE(allergens, '[]'), COALESCE(preparation_time, 0),
	is_available, COALESCE(customization_options, '[]'), created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Items(ctx context.Context, filter Filter) ([]domain.MenuItem, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE is_available`
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY category, name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM menu_items WHERE is_available ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

// PopularItems ranks available items by how often they have been ordered.
func (r *Repository) PopularItems(ctx context.Context) ([]domain.MenuItem, error) {
	query := `SELECT m.id, m.name, COALESCE(m.description, ''), m.price, m.category,
			COALESCE(m.image_url, ''), COALESCE(m.allergens, '[]'), COALESCE(m.preparation_time, 0),
			m.is_available, COALESCE(m.customization_options, '[]'), m.created_at, m.updated_at
		FROM menu_items m
		LEFT JOIN order_items oi ON oi.menu_item_id = m.id
		WHERE m.is_available
		GROUP BY m.id
		ORDER BY COUNT(oi.id) DESC, m.name
		LIMIT 10`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query popular items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *Repository) Item(ctx context.Context, id string) (*domain.MenuItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item %s: %w", id, err)
	}
	return item, nil
}

func (r *Repository) IsAvailable(ctx context.Context, id string) (bool, error) {
	var available bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_available FROM menu_items WHERE id = $1`, id).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query availability for %s: %w", id, err)
	}
	return available, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.MenuItem, error) {
	var (
		item          domain.MenuItem
		allergensJSON []byte
		optionsJSON   []byte
	)
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.ImageURL,
		&allergensJSON,
		&item.PreparationTime,
		&item.IsAvailable,
		&optionsJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(allergensJSON, &item.Allergens); err != nil {
		return nil, fmt.Errorf("unmarshal allergens: %w", err)
	}
	if err := json.Unmarshal(optionsJSON, &item.CustomizationOptions); err != nil {
		return nil, fmt.Errorf("unmarshal customization options: %w", err)
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
