package orderstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tableside/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order NewOrder) (string, error) {
	itemsJSON := make([]orderItemRow, 0, len(order.Items))
	for _, item := range order.Items {
		itemsJSON = append(itemsJSON, orderItemRow{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			Price:               item.Price,
			Customizations:      item.Customizations,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderID := uuid.NewString()
	orderNumber := "ORD-" + strings.ToUpper(orderID[:8])

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, table_id, group_order_id, type, status,
			subtotal, tax, total, pickup_time, special_instructions, payment_method,
			idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10,
			NULLIF($11, ''), $12, NULLIF($13, ''), NULLIF($14, ''), NOW(), NOW())`,
		orderID, orderNumber, order.UserID, order.TableID, order.GroupOrderID,
		order.Type, domain.OrderStatusNew,
		order.Subtotal, order.Tax, order.Total,
		order.PickupTime, order.SpecialInstructions, order.PaymentMethod,
		order.IdempotencyKey,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "orders_idempotency_key_key" {
			return r.orderIDByIdempotencyKey(ctx, order.IdempotencyKey)
		}
		return "", fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		customizationsJSON, err := json.Marshal(item.Customizations)
		if err != nil {
			return "", fmt.Errorf("marshal customizations: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, status, quantity, price,
				customizations, special_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), orderID, item.MenuItemID, domain.OrderStatusNew,
			item.Quantity, item.Price, customizationsJSON, item.SpecialInstructions,
		)
		if err != nil {
			return "", fmt.Errorf("insert order item: %w", err)
		}
	}

	payload, err := json.Marshal(map[string]any{
		"order_id":     orderID,
		"order_number": orderNumber,
		"user_id":      order.UserID,
		"type":         order.Type,
		"items":        itemsJSON,
		"total":        order.Total,
		"pickup_time":  order.PickupTime,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order event: %w", err)
	}
	if err := insertOutboxEvent(ctx, tx, orderID, "order_created", payload); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

func (r *Repository) orderIDByIdempotencyKey(ctx context.Context, key string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE idempotency_key = $1`, key).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("lookup order by idempotency key: %w", err)
	}
	return id, nil
}

// Validate runs the order-type shape checks. It looks only at the draft, not
// at menu availability or schedules; those belong to other collaborators.
func (r *Repository) Validate(_ context.Context, draft Draft) (domain.OrderValidation, error) {
	var errs []string
	switch draft.Type {
	case domain.OrderTypeDineIn:
		if draft.TableID == "" {
			errs = append(errs, "A table is required for dine-in orders")
		}
	case domain.OrderTypeTakeaway:
		// nothing beyond the common checks
	default:
		errs = append(errs, fmt.Sprintf("Unknown order type %q", draft.Type))
	}
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Item quantity must be positive, got %d", item.Quantity))
			break
		}
	}
	return domain.OrderValidation{Errors: errs}, nil
}

func (r *Repository) Confirmation(ctx context.Context, orderID string) (*domain.OrderConfirmation, error) {
	var (
		conf       domain.OrderConfirmation
		pickupTime sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_number, status, type, subtotal, tax, total, pickup_time, created_at
		FROM orders WHERE id = $1`, orderID).Scan(
		&conf.OrderID,
		&conf.OrderNumber,
		&conf.Status,
		&conf.Type,
		&conf.Subtotal,
		&conf.Tax,
		&conf.Total,
		&pickupTime,
		&conf.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order %s: %w", orderID, err)
	}
	conf.PickupTime = pickupTime.String
	conf.EstimatedReady = pickupTime.String

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, menu_item_id, quantity, price, COALESCE(customizations, '{}'),
			COALESCE(special_instructions, '')
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item               domain.OrderItem
			customizationsJSON []byte
		)
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.Quantity, &item.Price,
			&customizationsJSON, &item.SpecialInstructions); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if err := json.Unmarshal(customizationsJSON, &item.Customizations); err != nil {
			return nil, fmt.Errorf("unmarshal customizations: %w", err)
		}
		conf.Items = append(conf.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &conf, nil
}

// EstimatePreparation estimates kitchen time for a set of menu items: the
// slowest item dominates, plus a small penalty per additional distinct item.
func (r *Repository) EstimatePreparation(ctx context.Context, menuItemIDs []string) (int, error) {
	if len(menuItemIDs) == 0 {
		return 0, nil
	}

	var maxPrep int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(preparation_time), 0)
		FROM menu_items WHERE id = ANY($1)`, pq.Array(menuItemIDs)).Scan(&maxPrep)
	if err != nil {
		return 0, fmt.Errorf("query preparation time: %w", err)
	}

	return maxPrep + 2*(len(menuItemIDs)-1), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("query order status: %w", err)
	}

	if err := domain.Transition(current, status); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, orderID); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"order_id": orderID,
		"from":     current,
		"to":       status,
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	if err := insertOutboxEvent(ctx, tx, orderID, "order_status_changed", payload); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, orderID, eventType string, payload []byte) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_events (order_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, NOW())`, orderID, eventType, payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *Repository) UnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, event_type, payload, created_at
		FROM outbox_events WHERE processed_at IS NULL
		ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventProcessed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

func (r *Repository) EnqueueCartClear(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_clear_jobs (owner, created_at) VALUES ($1, NOW())`, owner); err != nil {
		return fmt.Errorf("enqueue cart clear: %w", err)
	}
	return nil
}

// PendingCartClears claims a batch of unfinished jobs. Claiming bumps
// attempts, so the counter reflects every pickup, not just the one that
// finally succeeds.
func (r *Repository) PendingCartClears(ctx context.Context, limit int) ([]*CartClearJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE cart_clear_jobs SET attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM cart_clear_jobs
			WHERE cleared_at IS NULL
			ORDER BY id LIMIT $1
		)
		RETURNING id, owner, attempts, created_at`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cart clear jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*CartClearJob
	for rows.Next() {
		var j CartClearJob
		if err := rows.Scan(&j.ID, &j.Owner, &j.Attempts, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart clear job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

func (r *Repository) MarkCartCleared(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE cart_clear_jobs SET cleared_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark cart cleared: %w", err)
	}
	return nil
}

type orderItemRow struct {
	MenuItemID          string                `json:"menu_item_id"`
	Quantity            int                   `json:"quantity"`
	Price               float64               `json:"price"`
	Customizations      domain.Customizations `json:"customizations,omitempty"`
	SpecialInstructions string                `json:"special_instructions,omitempty"`
}
