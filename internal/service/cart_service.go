package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableside/internal/cartstore"
	"tableside/internal/domain"
	"tableside/internal/identity"
)

// CartService owns a single diner's pre-checkout cart. Group carts are read
// through the same store under a group owner key but are never mutated here.
type CartService struct {
	carts cartstore.Store
}

func NewCartService(carts cartstore.Store) *CartService {
	return &CartService{carts: carts}
}

// CurrentCart returns the authenticated user's cart lines; a cart that was
// never created reads as empty.
func (s *CartService) CurrentCart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, identity.ErrNoUser
	}

	items, err := s.carts.Items(ctx, cartstore.UserOwner(userID))
	if errors.Is(err, cartstore.ErrCartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	return items, nil
}

type AddItemInput struct {
	MenuItem            domain.MenuItem
	Quantity            int
	Customizations      domain.Customizations
	SpecialInstructions string
}

// AddItem prices the line from the menu item and its selected customizations
// and appends it to the user's cart. The captured price is final: later
// catalog changes never touch existing lines.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.CartItem, error) {
	if userID == "" {
		return nil, identity.ErrNoUser
	}

	now := time.Now()
	item := domain.CartItem{
		ID:                  uuid.NewString(),
		MenuItemID:          in.MenuItem.ID,
		Quantity:            in.Quantity,
		Price:               domain.ItemPrice(in.MenuItem, in.Customizations),
		Customizations:      in.Customizations,
		SpecialInstructions: in.SpecialInstructions,
		AddedAt:             now,
		UpdatedAt:           now,
	}

	if err := s.carts.AddItem(ctx, cartstore.UserOwner(userID), item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return &item, nil
}

// UpdateQuantity forwards a partial update. Quantity bounds are the store's
// concern, not validated here.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if userID == "" {
		return identity.ErrNoUser
	}
	patch := cartstore.ItemPatch{Quantity: &quantity}
	if err := s.carts.UpdateItem(ctx, cartstore.UserOwner(userID), itemID, patch); err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		return identity.ErrNoUser
	}
	if err := s.carts.RemoveItem(ctx, cartstore.UserOwner(userID), itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// GroupItems reads a group order's shared cart.
func (s *CartService) GroupItems(ctx context.Context, groupID string) ([]domain.CartItem, error) {
	items, err := s.carts.Items(ctx, cartstore.GroupOwner(groupID))
	if errors.Is(err, cartstore.ErrCartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group items: %w", err)
	}
	return items, nil
}
