package cartstore

import (
	"context"
	"errors"

	"tableside/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Owner identifies whose cart a document is: a single diner's personal cart
// or the shared cart of a group order.
type Owner string

func UserOwner(userID string) Owner {
	return Owner("user:" + userID)
}

func GroupOwner(groupID string) Owner {
	return Owner("group:" + groupID)
}

// ItemPatch is a partial update to one cart line; nil fields are untouched.
type ItemPatch struct {
	Quantity            *int
	Customizations      *domain.Customizations
	SpecialInstructions *string
}

type Store interface {
	Items(ctx context.Context, owner Owner) ([]domain.CartItem, error)
	AddItem(ctx context.Context, owner Owner, item domain.CartItem) error
	UpdateItem(ctx context.Context, owner Owner, itemID string, patch ItemPatch) error
	RemoveItem(ctx context.Context, owner Owner, itemID string) error
	Clear(ctx context.Context, owner Owner) error
}
