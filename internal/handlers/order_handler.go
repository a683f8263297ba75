package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/techhaven/storefront/internal/repository"
)

const defaultOrderListLimit = 50

// OrderHandler exposes the admin order listing.
type OrderHandler struct {
	orders repository.OrderRepository
	log    *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders repository.OrderRepository, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

// ListOrders handles GET /api/orders?limit=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid limit", h.log)
			return
		}
		limit = parsed
	}

	orders, err := h.orders.FindRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}
