package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tableside/internal/domain"
	"tableside/internal/manager"
	"tableside/internal/service"
)

type takeawayFlow interface {
	AvailablePickupTimes(ctx context.Context) ([]domain.TimeSlot, error)
	PickupTimeInformation(ctx context.Context, sess manager.Session) (*service.TimeInformation, error)
	ValidateTakeawayOrder(ctx context.Context, sess manager.Session, pickupTime string) (domain.OrderValidation, error)
	PlaceTakeawayOrder(ctx context.Context, sess manager.Session, in manager.PlaceTakeawayInput) (string, error)
	OrderConfirmation(ctx context.Context, orderID string) (*domain.OrderConfirmation, error)
}

type TakeawayHandler struct {
	takeaway takeawayFlow
	timeout  time.Duration
}

func NewTakeawayHandler(takeaway takeawayFlow, timeout time.Duration) *TakeawayHandler {
	return &TakeawayHandler{takeaway: takeaway, timeout: timeout}
}

func (h *TakeawayHandler) GetPickupTimes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slots, err := h.takeaway.AvailablePickupTimes(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *TakeawayHandler) GetTimeInformation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	info, err := h.takeaway.PickupTimeInformation(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

type ValidateOrderRequestDTO struct {
	PickupTime string `json:"pickup_time"`
}

func (h *TakeawayHandler) ValidateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ValidateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	validation, err := h.takeaway.ValidateTakeawayOrder(ctx, sessionFromContext(r.Context()), req.PickupTime)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"is_valid": validation.IsValid(),
		"errors":   validation.Errors,
	})
}

type PlaceOrderRequestDTO struct {
	PickupTime          string `json:"pickup_time"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	PaymentMethod       string `json:"payment_method"`
}

type PlaceOrderResponseDTO struct {
	OrderID string `json:"order_id"`
}

// PlaceOrder places the current cart as a takeaway order. The client may pin
// an Idempotency-Key header to make retries safe; without one each submission
// is its own attempt.
func (h *TakeawayHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	orderID, err := h.takeaway.PlaceTakeawayOrder(ctx, sessionFromContext(r.Context()), manager.PlaceTakeawayInput{
		PickupTime:          req.PickupTime,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       req.PaymentMethod,
		IdempotencyKey:      idempotencyKey,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{OrderID: orderID})
}

func (h *TakeawayHandler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	confirmation, err := h.takeaway.OrderConfirmation(ctx, orderID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, confirmation)
}
