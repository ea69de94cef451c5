package registration

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"

	"github.com/samuelfgs/isv-run/email"
	"github.com/samuelfgs/isv-run/receipt"
	"github.com/samuelfgs/isv-run/slices"
)

//go:embed templates
var templates embed.FS

const confirmationSubject = "Inscrição Confirmada - ISV RUN 2026"

type ConfirmationEmailOptions struct {
	FromAddress string
	// TrackingAddress receives a copy of every confirmation, tagged with the
	// registration id ("user+<id>@host"). A failed tracking send is logged and
	// swallowed.
	TrackingAddress string
	PublicBaseURL   string
}

type confirmationParticipant struct {
	Name          string
	ModalityLabel string
	ShirtSize     string
}

// SendConfirmationEmail renders the PDF receipt and HTML body for a
// registration and dispatches them. Only the primary send decides success.
func SendConfirmationEmail(ctx context.Context, logger *slog.Logger, sender email.Sender, opts ConfirmationEmailOptions, reg Registration) error {
	people := make([]receipt.Participant, 0, len(reg.Metadata.People))
	for i, p := range reg.Metadata.People {
		qr, err := receipt.QRCodePNG(receipt.CheckInURL(opts.PublicBaseURL, reg.ID.String(), i))
		if err != nil {
			return NewEmailSendFailedError("Failed to generate check-in QR code", err)
		}
		people = append(people, receipt.Participant{
			Name:          p.Name,
			CPF:           p.CPF,
			ShirtSize:     strings.ToUpper(p.ShirtSize),
			ModalityLabel: p.Modality.Label(),
			QRCode:        qr,
		})
	}

	pdf, err := receipt.Render(receipt.Receipt{
		ContactEmail: reg.Email,
		People:       people,
	})
	if err != nil {
		return NewEmailSendFailedError("Failed to render receipt PDF", err)
	}

	htmlBody, err := makeHTMLBody(reg)
	if err != nil {
		return NewEmailSendFailedError("Failed to render email body", err)
	}
	textBody, err := makeTextOnlyBody(reg)
	if err != nil {
		return NewEmailSendFailedError("Failed to render email body", err)
	}

	msg := email.Email{
		FromAddress: opts.FromAddress,
		ToAddresses: []string{reg.Email},
		Subject:     confirmationSubject,
		HTMLBody:    htmlBody,
		TextBody:    textBody,
		Attachments: []email.Attachment{
			{
				Filename:    "comprovante-isv-run.pdf",
				ContentType: "application/pdf",
				Data:        pdf,
			},
		},
	}

	if err := sender.SendEmail(ctx, msg); err != nil {
		return NewEmailSendFailedError(fmt.Sprintf("Failed to send confirmation email to %s", reg.Email), err)
	}

	if opts.TrackingAddress != "" {
		trackingMsg := msg
		trackingMsg.ToAddresses = []string{taggedAddress(opts.TrackingAddress, reg.ID.String())}
		if err := sender.SendEmail(ctx, trackingMsg); err != nil {
			logger.Error("Failed to send tracking copy",
				slog.String("registrationId", reg.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

func templateData(reg Registration) map[string]any {
	return map[string]any{
		"People": slices.Map(reg.Metadata.People, func(p Participant) confirmationParticipant {
			return confirmationParticipant{
				Name:          p.Name,
				ModalityLabel: p.Modality.Label(),
				ShirtSize:     strings.ToUpper(p.ShirtSize),
			}
		}),
	}
}

func makeHTMLBody(reg Registration) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/confirmation.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData(reg)); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}

func makeTextOnlyBody(reg Registration) (string, error) {
	tmpl, err := texttemplate.ParseFS(templates, "templates/confirmation-textonly.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData(reg)); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}

// taggedAddress turns "user@host" into "user+<tag>@host" so the tracking
// mailbox can be filtered per registration.
func taggedAddress(addr, tag string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return addr
	}
	return addr[:at] + "+" + tag + addr[at:]
}
