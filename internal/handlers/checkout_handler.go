package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techhaven/storefront/internal/cart"
	"github.com/techhaven/storefront/internal/models"
	"github.com/techhaven/storefront/internal/service"
)

// CheckoutHandler handles checkout session creation requests.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	log             *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		log:             log,
	}
}

// CreateSession handles POST /api/checkout. It aggregates the submitted
// items into a request-scoped cart and returns the hosted payment page URL.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	c := cart.New()
	for _, item := range req.Items {
		c.AddItem(models.Product{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
		})
		// AddItem merges duplicates at quantity 1; set the requested count
		if item.Quantity != 1 {
			if err := c.UpdateQuantity(item.ID, item.Quantity); err != nil {
				h.log.Warn("invalid item quantity", "product_id", item.ID, "quantity", item.Quantity)
				WriteError(w, http.StatusBadRequest, "Quantity must be at least 1", h.log)
				return
			}
		}
	}

	url, err := h.checkoutService.Checkout(r.Context(), c, req.CustomerInfo)
	if err != nil {
		h.log.Error("checkout failed", "error", err)

		switch {
		case errors.Is(err, service.ErrEmptyCart):
			WriteError(w, http.StatusBadRequest, "Cart must contain at least one item", h.log)
		case errors.Is(err, service.ErrInvalidEmail):
			WriteError(w, http.StatusBadRequest, "A valid email address is required", h.log)
		case errors.Is(err, service.ErrInvalidItem):
			WriteError(w, http.StatusBadRequest, "Invalid cart item", h.log)
		case errors.Is(err, service.ErrPaymentProvider):
			WriteError(w, http.StatusBadGateway, "Payment service unavailable, please try again", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, models.CheckoutResponse{URL: url}, h.log)
}
