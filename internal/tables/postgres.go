package tables

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableside/internal/domain"
)

// groupOrderLifetime bounds how long a table's group order stays joinable.
const groupOrderLifetime = 2 * time.Hour

type Repository struct {
	db    *sql.DB
	codes *JoinCodeStore
	now   func() time.Time
}

func NewRepository(db *sql.DB, codes *JoinCodeStore) *Repository {
	return &Repository{db: db, codes: codes, now: time.Now}
}

func (r *Repository) TableByQR(ctx context.Context, qrCode string) (*domain.TableSeating, error) {
	var table domain.TableSeating
	err := r.db.QueryRowContext(ctx, `
		SELECT id, number, capacity, status, COALESCE(section, ''), COALESCE(qr_code, ''), is_active
		FROM table_seating WHERE qr_code = $1 AND is_active`, qrCode).Scan(
		&table.ID, &table.Number, &table.Capacity, &table.Status,
		&table.Section, &table.QRCode, &table.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query table by qr: %w", err)
	}
	return &table, nil
}

// ValidateTableStatus reports whether a table can take orders right now.
// Occupied is fine (diners at the table keep ordering); reserved and
// cleaning are not.
func (r *Repository) ValidateTableStatus(ctx context.Context, tableID string) (bool, error) {
	var status domain.TableStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM table_seating WHERE id = $1 AND is_active`, tableID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query table status: %w", err)
	}
	return status == domain.TableStatusAvailable || status == domain.TableStatusOccupied, nil
}

// CreateGroupOrder opens a shared order for a table. The backing main order
// row anchors the group in the relational schema; the join code lives in
// redis with a TTL matching the group's expiry.
func (r *Repository) CreateGroupOrder(ctx context.Context, tableID, userID string) (*domain.GroupOrder, error) {
	now := r.now()
	expiresAt := now.Add(groupOrderLifetime)
	code := NewCode()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	mainOrderID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, table_id, type, status,
			subtotal, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, NOW(), NOW())`,
		mainOrderID, "GRP-"+code, userID, tableID,
		domain.OrderTypeDineIn, domain.OrderStatusNew)
	if err != nil {
		return nil, fmt.Errorf("insert main order: %w", err)
	}

	groupID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_orders (id, main_order_id, table_id, join_code, is_active, created_at, expires_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)`,
		groupID, mainOrderID, tableID, code, now, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("insert group order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit group order: %w", err)
	}

	if err := r.codes.Put(ctx, code, groupID, expiresAt.Sub(now)); err != nil {
		// The durable row still resolves the code; redis is the fast path.
		return nil, fmt.Errorf("store join code: %w", err)
	}

	return &domain.GroupOrder{
		ID:          groupID,
		MainOrderID: mainOrderID,
		TableID:     tableID,
		JoinCode:    code,
		IsActive:    true,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}, nil
}

// JoinGroupOrder resolves a join code, preferring redis and falling back to
// the durable row, then checks the group is still active and unexpired.
func (r *Repository) JoinGroupOrder(ctx context.Context, joinCode, userID string) (*domain.GroupOrder, error) {
	groupID, err := r.codes.Resolve(ctx, joinCode)
	if errors.Is(err, ErrInvalidJoinCode) {
		groupID, err = r.groupIDByCode(ctx, joinCode)
	}
	if err != nil {
		return nil, err
	}

	group, err := r.GroupOrder(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsActive {
		return nil, ErrGroupOrderNotFound
	}
	if group.Expired(r.now()) {
		return nil, ErrGroupOrderExpired
	}
	return group, nil
}

func (r *Repository) groupIDByCode(ctx context.Context, joinCode string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM group_orders WHERE join_code = $1 AND is_active`, joinCode).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidJoinCode
	}
	if err != nil {
		return "", fmt.Errorf("query group by join code: %w", err)
	}
	return id, nil
}

func (r *Repository) GroupOrder(ctx context.Context, groupID string) (*domain.GroupOrder, error) {
	var group domain.GroupOrder
	err := r.db.QueryRowContext(ctx, `
		SELECT id, main_order_id, table_id, join_code, is_active, created_at, expires_at
		FROM group_orders WHERE id = $1`, groupID).Scan(
		&group.ID, &group.MainOrderID, &group.TableID, &group.JoinCode,
		&group.IsActive, &group.CreatedAt, &group.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query group order: %w", err)
	}
	return &group, nil
}
