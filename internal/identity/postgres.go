package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) UserBySession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoUser
	}

	var user domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > NOW() AND u.is_active`, token).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("query session user: %w", err)
	}
	return &user, nil
}

func (r *Repository) Preferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(preferences, '{}') FROM users WHERE id = $1`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("query user preferences: %w", err)
	}

	var prefs domain.UserPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return &prefs, nil
}
