package main

import (
	"context"
	"log/slog"

	"github.com/samuelfgs/isv-run/email"
)

var _ email.Sender = &EmailLogger{}

// email.Sender that logs out the email contents for local dev instead of
// talking to the SMTP relay.
type EmailLogger struct {
	logger *slog.Logger
}

func (el *EmailLogger) SendEmail(ctx context.Context, e email.Email) error {
	attachments := make([]string, 0, len(e.Attachments))
	for _, a := range e.Attachments {
		attachments = append(attachments, a.Filename)
	}

	el.logger.Info("email that would be sent",
		slog.String("from", e.FromAddress),
		slog.Any("to", e.ToAddresses),
		slog.String("subject", e.Subject),
		slog.Any("attachments", attachments),
	)

	return nil
}

func createEmailSender(logger *slog.Logger, cfg *Config) email.Sender {
	if cfg.Env == "local" {
		return &EmailLogger{logger: logger}
	}

	return email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
}
