package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

var _ Sender = &SMTPSender{}

// SMTPSender delivers over implicit-TLS SMTP (port 465 style endpoints).
// Construct once and share; the dialer opens a fresh connection per send,
// which is fine at this traffic level.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	d := gomail.NewDialer(host, port, username, password)
	d.SSL = port == 465

	return &SMTPSender{dialer: d}
}

func (s *SMTPSender) SendEmail(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.FromAddress)
	m.SetHeader("To", e.ToAddresses...)
	m.SetHeader("Subject", e.Subject)

	if e.TextBody != "" {
		m.SetBody("text/plain", e.TextBody)
		if e.HTMLBody != "" {
			m.AddAlternative("text/html", e.HTMLBody)
		}
	} else {
		m.SetBody("text/html", e.HTMLBody)
	}

	for _, att := range e.Attachments {
		data := att.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		m.Attach(att.Filename, settings...)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %v: %w", e.ToAddresses, err)
	}

	return nil
}
