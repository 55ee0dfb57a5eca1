package identity

import (
	"context"
	"errors"

	"tableside/internal/domain"
)

// ErrNoUser means the request carries no resolvable authenticated user.
var ErrNoUser = errors.New("no user found")

type Identity interface {
	UserBySession(ctx context.Context, token string) (*domain.User, error)
	Preferences(ctx context.Context, userID string) (*domain.UserPreferences, error)
}
