package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// JoinCodeStore keeps the short-lived group-order join codes in redis; the
// key TTL matches the group order's expiry so a code can never outlive its
// group.
type JoinCodeStore struct {
	client *redis.Client
}

func NewJoinCodeStore(client *redis.Client) *JoinCodeStore {
	return &JoinCodeStore{client: client}
}

// NewCode returns a short shareable code diners type to join a table's group
// order.
func NewCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func (s *JoinCodeStore) Put(ctx context.Context, code, groupID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKey(code), groupID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set join code: %w", err)
	}
	return nil
}

// Resolve returns the group-order id behind a code, or ErrInvalidJoinCode if
// the code is unknown or already expired.
func (s *JoinCodeStore) Resolve(ctx context.Context, code string) (string, error) {
	groupID, err := s.client.Get(ctx, codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidJoinCode
	}
	if err != nil {
		return "", fmt.Errorf("redis get join code: %w", err)
	}
	return groupID, nil
}

func (s *JoinCodeStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, codeKey(code)).Err(); err != nil {
		return fmt.Errorf("redis delete join code: %w", err)
	}
	return nil
}

func codeKey(code string) string {
	return fmt.Sprintf("joincode:%s", strings.ToUpper(code))
}
