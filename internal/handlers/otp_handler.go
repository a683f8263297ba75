package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techhaven/storefront/internal/service"
)

// OTPHandler handles email verification requests.
type OTPHandler struct {
	otpService *service.OTPService
	log        *slog.Logger
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(otpService *service.OTPService, log *slog.Logger) *OTPHandler {
	return &OTPHandler{
		otpService: otpService,
		log:        log,
	}
}

type otpSendRequest struct {
	Email string `json:"email"`
}

type otpSendResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type otpVerifyRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otpCode"`
}

type otpVerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send handles POST /api/otp/send
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode otp send request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	expiresIn, err := h.otpService.Issue(r.Context(), req.Email)
	if err != nil {
		h.log.Error("failed to issue otp", "error", err)

		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			WriteError(w, http.StatusBadRequest, "A valid email address is required", h.log)
		case errors.Is(err, service.ErrBlockedEmail):
			WriteError(w, http.StatusBadRequest, "Disposable email addresses are not allowed", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Failed to generate OTP", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, otpSendResponse{
		Success:   true,
		Message:   "OTP sent successfully",
		ExpiresIn: expiresIn,
	}, h.log)
}

// Verify handles POST /api/otp/verify
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode otp verify request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.otpService.Verify(r.Context(), req.Email, req.OTPCode); err != nil {
		h.log.Warn("otp verification failed", "email", req.Email, "error", err)

		switch {
		case errors.Is(err, service.ErrExpiredCode):
			WriteError(w, http.StatusBadRequest, "Verification code has expired", h.log)
		case errors.Is(err, service.ErrInvalidCode):
			WriteError(w, http.StatusBadRequest, "Invalid verification code", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, otpVerifyResponse{
		Success: true,
		Message: "Email verified successfully",
	}, h.log)
}
