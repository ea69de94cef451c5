// Package email is the outbound email boundary: a value type, a Sender
// interface for injection, and an SMTP implementation.
package email

import "context"

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Email struct {
	FromAddress string
	ToAddresses []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

type Sender interface {
	SendEmail(ctx context.Context, e Email) error
}
