package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/samuelfgs/isv-run/registration"
)

type resendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

// handleResend re-sends the confirmation unconditionally: no idempotency
// check, this is the manual escape hatch for support requests.
func (a *API) handleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "User ID is required", "")
		return
	}

	reg, err := a.db.GetRegistration(ctx, id)
	if err != nil {
		a.logger.Warn("Error fetching registration for resend", "id", id, "error", err)
		a.writeError(w, http.StatusNotFound, "User not found", err.Error())
		return
	}

	if err := registration.SendConfirmationEmail(ctx, a.logger, a.emailSender, a.emailOpts, reg); err != nil {
		a.logger.Error("Error resending confirmation email", "id", id, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Failed to send email", err.Error())
		return
	}

	// Best effort: the resend succeeds even if the flag update fails, and an
	// already-true flag is expected here.
	if err := a.db.MarkEmailSent(ctx, id); err != nil {
		var regErr *registration.Error
		if !errors.As(err, &regErr) || regErr.Reason != registration.REASON_EMAIL_ALREADY_SENT {
			a.logger.Error("Error updating email_sent flag after resend", "id", id, "error", err)
		}
	}

	a.writeJSON(w, http.StatusOK, resendResponse{
		Success: true,
		Message: "Email sent successfully",
		UserID:  id.String(),
		Email:   reg.Email,
	})
}
