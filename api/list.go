package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/samuelfgs/isv-run/registration"
	"github.com/samuelfgs/isv-run/slices"
)

type listResponse struct {
	Success     bool         `json:"success"`
	Data        []lookupData `json:"data"`
	Cursor      *string      `json:"cursor,omitempty"`
	HasNextPage bool         `json:"hasNextPage"`
}

// handleListRegistrations is the organizer's paginated export of every
// registration batch.
func (a *API) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		userLimit, err := strconv.Atoi(v)
		if err != nil || userLimit < 1 || userLimit > 50 {
			a.logger.Warn("Limit out of bounds", "limit", v)
			a.writeError(w, http.StatusBadRequest, "Limit must be between 1 and 50", "")
			return
		}
		limit = userLimit
	}

	var cursor *string
	if v := r.URL.Query().Get("cursor"); v != "" {
		cursor = &v
	}

	result, err := a.db.GetRegistrations(ctx, int32(limit), cursor)
	if err != nil {
		a.logger.Error("Failed to get registrations", "error", err)

		var regErr *registration.Error
		if errors.As(err, &regErr) {
			switch regErr.Reason {
			case registration.REASON_INVALID_CURSOR:
				a.writeError(w, http.StatusBadRequest, "Cursor is invalid", "")
				return
			}
		}
		a.writeError(w, http.StatusInternalServerError, "Failed to get registrations", "")
		return
	}

	a.writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data: slices.Map(result.Data, func(reg registration.Registration) lookupData {
			return lookupData{
				ID:            reg.ID.String(),
				Name:          reg.Name,
				Email:         reg.Email,
				CPF:           reg.CPF,
				MercadoPagoID: reg.MercadoPagoID,
				EmailSent:     reg.EmailSent,
				Metadata:      reg.Metadata,
			}
		}),
		Cursor:      result.Cursor,
		HasNextPage: result.HasNextPage,
	})
}
