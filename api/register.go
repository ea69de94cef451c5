package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/samuelfgs/isv-run/registration"
)

type registerResponse struct {
	Success   bool                      `json:"success"`
	Data      registration.Registration `json:"data"`
	InitPoint string                    `json:"init_point"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registration.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("Invalid registration body", "error", err)
		a.writeError(w, http.StatusBadRequest, "Campos obrigatórios faltando", "")
		return
	}

	reg, err := registration.Submit(ctx, req, a.unitPrice, a.payments, a.db)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) {
			switch regErr.Reason {
			case registration.REASON_MISSING_FIELDS, registration.REASON_INVALID_PARTICIPANT:
				a.logger.Warn("Rejected registration", "reason", regErr.Reason, "error", err)
				a.writeError(w, http.StatusBadRequest, regErr.Message, "")
				return
			case registration.REASON_PREFERENCE_CREATION_FAILED:
				a.logger.Error("Mercado Pago error", "error", err)
				a.writeError(w, http.StatusInternalServerError, "Erro ao criar preferência de pagamento", regErr.Message)
				return
			}
		}

		a.logger.Error("Failed to save registration", "error", err)
		a.writeError(w, http.StatusInternalServerError, "Erro ao salvar inscrição", err.Error())
		return
	}

	a.writeJSON(w, http.StatusCreated, registerResponse{
		Success:   true,
		Data:      reg,
		InitPoint: reg.Metadata.InitPoint,
	})
}
