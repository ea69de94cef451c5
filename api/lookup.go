package api

import (
	"net/http"

	"github.com/samuelfgs/isv-run/registration"
)

// lookupData is the projection the success page consumes.
type lookupData struct {
	ID            string                `json:"id"`
	Name          string                `json:"nome"`
	Email         string                `json:"email"`
	CPF           string                `json:"cpf"`
	MercadoPagoID string                `json:"mercado_pago_id"`
	EmailSent     bool                  `json:"email_sent"`
	Metadata      registration.Metadata `json:"metadata"`
}

type lookupResponse struct {
	Success bool       `json:"success"`
	Data    lookupData `json:"data"`
}

func (a *API) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mercadoPagoID := r.PathValue("mercadoPagoId")
	if mercadoPagoID == "" {
		a.writeError(w, http.StatusBadRequest, "Missing mercadoPagoId", "")
		return
	}

	reg, err := a.db.GetRegistrationByReference(ctx, mercadoPagoID)
	if err != nil {
		a.logger.Warn("Error fetching registration", "mercadoPagoId", mercadoPagoID, "error", err)
		a.writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "Registration not found",
		})
		return
	}

	a.writeJSON(w, http.StatusOK, lookupResponse{
		Success: true,
		Data: lookupData{
			ID:            reg.ID.String(),
			Name:          reg.Name,
			Email:         reg.Email,
			CPF:           reg.CPF,
			MercadoPagoID: reg.MercadoPagoID,
			EmailSent:     reg.EmailSent,
			Metadata:      reg.Metadata,
		},
	})
}
