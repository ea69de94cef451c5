package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/samuelfgs/isv-run/payments"
	"github.com/samuelfgs/isv-run/registration"
)

// handleWebhook processes Mercado Pago payment notifications. The provider
// may deliver the same event more than once; the email_sent flag plus the
// conditional MarkEmailSent keep the confirmation to a single dispatch.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.logger.Error("Failed to read webhook body", "error", err)
		a.writeJSON(w, http.StatusServiceUnavailable, webhookResponse{Success: false, Message: "Failed to read request body"})
		return
	}

	// Signature enforcement is opt-in: with no secret configured the check is
	// skipped, matching the original deployment.
	if a.webhookSecret != "" {
		signature := r.Header.Get("x-signature")
		requestID := r.Header.Get("x-request-id")
		if !payments.VerifySignature(body, signature, requestID, a.webhookSecret) {
			a.logger.Warn("Invalid webhook signature")
			a.writeJSON(w, http.StatusUnauthorized, webhookResponse{Success: false, Message: "Invalid webhook signature"})
			return
		}
	}

	query := r.URL.Query()
	paymentID := query.Get("id")
	topic := query.Get("topic")

	a.logger.Info("Webhook received", "paymentId", paymentID, "topic", topic)

	if topic != "payment" {
		a.writeJSON(w, http.StatusOK, webhookResponse{
			Success: true,
			Message: "Webhook received but not a payment notification",
		})
		return
	}

	payment, err := a.payments.GetPayment(ctx, paymentID)
	if err != nil {
		a.logger.Error("Error fetching payment from Mercado Pago", "paymentId", paymentID, "error", err)
		a.writeJSON(w, http.StatusNotFound, webhookResponse{
			Success:   false,
			PaymentID: paymentID,
			Message:   "Payment not found in Mercado Pago",
		})
		return
	}

	if payment.Status != payments.StatusApproved {
		a.logger.Info("Payment not approved, ignoring", "paymentId", paymentID, "status", payment.Status)
		a.writeJSON(w, http.StatusOK, webhookResponse{
			Success: true,
			Message: "Payment status is " + string(payment.Status) + ", not sending email",
		})
		return
	}

	if payment.ExternalReference == "" {
		a.logger.Error("Payment has no external reference", "paymentId", paymentID)
		a.writeJSON(w, http.StatusBadRequest, webhookResponse{
			Success:   false,
			PaymentID: paymentID,
			Message:   "Payment missing external reference",
		})
		return
	}

	reg, err := a.db.GetRegistrationByReference(ctx, payment.ExternalReference)
	if err != nil {
		a.logger.Error("Registration not found for external reference", "reference", payment.ExternalReference, "error", err)
		a.writeJSON(w, http.StatusNotFound, webhookResponse{
			Success:   false,
			PaymentID: paymentID,
			Message:   "Registration not found for this payment",
		})
		return
	}

	if reg.EmailSent {
		a.writeJSON(w, http.StatusOK, webhookResponse{
			Success:     true,
			PaymentID:   paymentID,
			InscritoID:  reg.ID.String(),
			Message:     "Email already sent for this registration",
			AlreadySent: true,
		})
		return
	}

	err = registration.SendConfirmationEmail(ctx, a.logger, a.emailSender, a.emailOpts, reg)
	if err != nil {
		a.logger.Error("Error sending confirmation email", "registrationId", reg.ID, "error", err)
		a.writeJSON(w, http.StatusInternalServerError, webhookResponse{
			Success:    false,
			PaymentID:  paymentID,
			InscritoID: reg.ID.String(),
			Message:    "Failed to send confirmation email",
		})
		return
	}

	err = a.db.MarkEmailSent(ctx, reg.ID)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) && regErr.Reason == registration.REASON_EMAIL_ALREADY_SENT {
			// A concurrent delivery won the conditional update after we
			// dispatched; the flag is consistent, report it as already sent.
			a.writeJSON(w, http.StatusOK, webhookResponse{
				Success:     true,
				PaymentID:   paymentID,
				InscritoID:  reg.ID.String(),
				Message:     "Email already sent for this registration",
				AlreadySent: true,
			})
			return
		}

		// The email went out but the flag did not stick. Surface the failure
		// so the provider retries; a duplicate send is possible and accepted.
		a.logger.Error("Error updating email_sent flag", "registrationId", reg.ID, "error", err)
		a.writeJSON(w, http.StatusInternalServerError, webhookResponse{
			Success:    false,
			PaymentID:  paymentID,
			InscritoID: reg.ID.String(),
			Message:    "Email sent but failed to update database",
		})
		return
	}

	a.writeJSON(w, http.StatusOK, webhookResponse{
		Success:    true,
		PaymentID:  paymentID,
		InscritoID: reg.ID.String(),
		Message:    "Confirmation email sent successfully",
	})
}
