package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tableside/internal/domain"
	"tableside/internal/manager"
	"tableside/internal/service"
)

// menuBrowser is the slice of the takeaway manager the menu handler uses.
type menuBrowser interface {
	InitializePage(ctx context.Context) (*service.PageData, error)
	FilterByCategory(ctx context.Context, category string) ([]domain.MenuItem, error)
	SearchItems(ctx context.Context, query string) ([]domain.MenuItem, error)
	ItemDetails(ctx context.Context, menuItemID string) (*service.ItemDetails, error)
	ItemReviews(ctx context.Context, menuItemID string) (*manager.ItemReviews, error)
}

type MenuHandler struct {
	menu    menuBrowser
	timeout time.Duration
}

func NewMenuHandler(menu menuBrowser, timeout time.Duration) *MenuHandler {
	return &MenuHandler{menu: menu, timeout: timeout}
}

func (h *MenuHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := h.menu.InitializePage(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetItems serves both category filtering and text search; search wins when
// both query parameters are present.
func (h *MenuHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		items []domain.MenuItem
		err   error
	)
	if query := r.URL.Query().Get("search"); query != "" {
		items, err = h.menu.SearchItems(ctx, query)
	} else {
		items, err = h.menu.FilterByCategory(ctx, r.URL.Query().Get("category"))
	}
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	details, err := h.menu.ItemDetails(ctx, itemID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *MenuHandler) GetItemReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	result, err := h.menu.ItemReviews(ctx, itemID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
