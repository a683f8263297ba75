package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the JSON body of every non-2xx response. The storefront
// client reads only the error field.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes data as the response body with the given status.
// Encoding failures are logged; by then the status line is already on the
// wire, so there is nothing else to do.
func WriteJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError sends a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, errorResponse{Error: message}, logger)
}
