package manager

import "errors"

var (
	ErrNoTable            = errors.New("no table found")
	ErrNoActiveGroupOrder = errors.New("no active group order")
)

// Session is the per-request identity context threaded through every manager
// call. It is built once from the incoming request and never mutated, so two
// concurrent requests can never see each other's table or group.
type Session struct {
	UserID       string
	TableID      string
	GroupOrderID string
}
