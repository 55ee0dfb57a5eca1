package tables

import (
	"context"
	"errors"

	"tableside/internal/domain"
)

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrTableUnavailable   = errors.New("table is not available")
	ErrGroupOrderNotFound = errors.New("group order not found")
	ErrGroupOrderExpired  = errors.New("group order has expired")
	ErrInvalidJoinCode    = errors.New("invalid join code")
)

// Tables resolves physical tables from QR codes and manages the group orders
// attached to them.
type Tables interface {
	TableByQR(ctx context.Context, qrCode string) (*domain.TableSeating, error)
	ValidateTableStatus(ctx context.Context, tableID string) (bool, error)
	CreateGroupOrder(ctx context.Context, tableID, userID string) (*domain.GroupOrder, error)
	JoinGroupOrder(ctx context.Context, joinCode, userID string) (*domain.GroupOrder, error)
	GroupOrder(ctx context.Context, groupID string) (*domain.GroupOrder, error)
}
