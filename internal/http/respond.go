package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tableside/internal/cartstore"
	"tableside/internal/catalog"
	"tableside/internal/identity"
	"tableside/internal/manager"
	"tableside/internal/orderstore"
	"tableside/internal/service"
	"tableside/internal/tables"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleError translates service errors into HTTP responses. Validation
// rejections keep their human-readable message; everything unexpected is a
// plain 500 so internals never leak to clients.
func handleError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Message)
		return
	}

	switch {
	case errors.Is(err, identity.ErrNoUser):
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	case errors.Is(err, manager.ErrNoTable):
		respondError(w, http.StatusBadRequest, "no_table", "no table in session")
	case errors.Is(err, manager.ErrNoActiveGroupOrder):
		respondError(w, http.StatusBadRequest, "no_group_order", "no active group order in session")
	case errors.Is(err, catalog.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "menu item not found")
	case errors.Is(err, cartstore.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
	case errors.Is(err, cartstore.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart not found")
	case errors.Is(err, orderstore.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, tables.ErrTableNotFound):
		respondError(w, http.StatusNotFound, "not_found", "table not found")
	case errors.Is(err, tables.ErrGroupOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "group order not found")
	case errors.Is(err, tables.ErrInvalidJoinCode):
		respondError(w, http.StatusBadRequest, "invalid_join_code", "invalid join code")
	case errors.Is(err, tables.ErrGroupOrderExpired):
		respondError(w, http.StatusGone, "group_order_expired", "group order has expired")
	case errors.Is(err, tables.ErrTableUnavailable):
		respondError(w, http.StatusConflict, "table_unavailable", "table is not available")
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
