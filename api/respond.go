package api

import (
	"encoding/json"
	"net/http"
)

// errorResponse matches the original app's failure envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// webhookResponse is always returned by the webhook endpoint, success or not.
type webhookResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	PaymentID   string `json:"paymentId,omitempty"`
	InscritoID  string `json:"inscritoId,omitempty"`
	AlreadySent bool   `json:"alreadySent,omitempty"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string, details string) {
	a.writeJSON(w, status, errorResponse{Error: message, Details: details})
}
