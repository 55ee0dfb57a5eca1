package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tableside/internal/domain"
	"tableside/internal/manager"
)

type cartEditor interface {
	AddToCart(ctx context.Context, sess manager.Session, in manager.AddToCartInput) (*domain.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, sess manager.Session, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, sess manager.Session, itemID string) error
	CartSummary(ctx context.Context, sess manager.Session) (*domain.OrderSummary, error)
}

type CartHandler struct {
	cart    cartEditor
	timeout time.Duration
}

func NewCartHandler(cart cartEditor, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: cart, timeout: timeout}
}

type AddItemRequestDTO struct {
	MenuItemID          string                `json:"menu_item_id"`
	Quantity            int                   `json:"quantity"`
	Customizations      domain.Customizations `json:"customizations,omitempty"`
	SpecialInstructions string                `json:"special_instructions,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.MenuItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_menu_item_id", "menu_item_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	item, err := h.cart.AddToCart(ctx, sessionFromContext(r.Context()), manager.AddToCartInput{
		MenuItemID:          req.MenuItemID,
		Quantity:            req.Quantity,
		Customizations:      req.Customizations,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.cart.CartSummary(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.cart.UpdateCartItemQuantity(ctx, sessionFromContext(r.Context()), itemID, req.Quantity); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if err := h.cart.RemoveCartItem(ctx, sessionFromContext(r.Context()), itemID); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
