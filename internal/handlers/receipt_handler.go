package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techhaven/storefront/internal/service"
)

// ReceiptHandler handles payment confirmation callbacks from the success
// redirect.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	log            *slog.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, log *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		log:            log,
	}
}

type receiptRequest struct {
	SessionID string `json:"session_id"`
}

type receiptResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	ReceiptData *service.Receipt `json:"receiptData"`
}

// SendReceipt handles POST /api/receipt
func (h *ReceiptHandler) SendReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode receipt request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.SessionID == "" {
		WriteError(w, http.StatusBadRequest, "session_id is required", h.log)
		return
	}

	receipt, err := h.receiptService.ConfirmPayment(r.Context(), req.SessionID)
	if err != nil {
		h.log.Error("payment confirmation failed", "session_id", req.SessionID, "error", err)

		switch {
		case errors.Is(err, service.ErrPaymentNotCompleted):
			WriteError(w, http.StatusConflict, "Payment not completed", h.log)
		case errors.Is(err, service.ErrPaymentProvider):
			WriteError(w, http.StatusBadGateway, "Payment service unavailable, please try again", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, receiptResponse{
		Success:     true,
		Message:     "Receipt sent successfully",
		ReceiptData: receipt,
	}, h.log)
}
