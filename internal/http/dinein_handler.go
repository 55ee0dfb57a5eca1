package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tableside/internal/domain"
	"tableside/internal/manager"
)

type dineInFlow interface {
	HandleQRScan(ctx context.Context, qrCode string) (*manager.QRScanResult, error)
	InitializeGroupOrder(ctx context.Context, sess manager.Session) (*domain.GroupOrder, error)
	JoinGroupOrder(ctx context.Context, sess manager.Session, joinCode string) (*domain.GroupOrder, error)
	GroupItems(ctx context.Context, sess manager.Session) ([]domain.CartItem, error)
	OrderSummary(ctx context.Context, sess manager.Session) (*domain.OrderSummary, error)
	ConfirmPersonalOrder(ctx context.Context, sess manager.Session) (string, error)
	MenuWithCategories(ctx context.Context) (*manager.MenuView, error)
}

type DineInHandler struct {
	dinein  dineInFlow
	timeout time.Duration
}

func NewDineInHandler(dinein dineInFlow, timeout time.Duration) *DineInHandler {
	return &DineInHandler{dinein: dinein, timeout: timeout}
}

type ScanRequestDTO struct {
	QRCode string `json:"qr_code"`
}

func (h *DineInHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ScanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.dinein.HandleQRScan(ctx, req.QRCode)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *DineInHandler) CreateGroupOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	group, err := h.dinein.InitializeGroupOrder(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

type JoinGroupRequestDTO struct {
	JoinCode string `json:"join_code"`
}

func (h *DineInHandler) JoinGroupOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req JoinGroupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.JoinCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_join_code", "join_code is required")
		return
	}

	group, err := h.dinein.JoinGroupOrder(ctx, sessionFromContext(r.Context()), req.JoinCode)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *DineInHandler) GetGroupItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.dinein.GroupItems(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *DineInHandler) GetOrderSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.dinein.OrderSummary(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *DineInHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := h.dinein.ConfirmPersonalOrder(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{OrderID: orderID})
}

func (h *DineInHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.dinein.MenuWithCategories(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
