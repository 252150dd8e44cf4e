// Package mailer sends the notification emails of the issuance workflow:
// verification tokens to end users, pending-request alerts to operators, and
// issuance outcomes back to users. Delivery uses plain SMTP; there is no mail
// library in use here because the messages are simple enough for net/smtp and
// a handful of templates.
package mailer

import (
	"context"
	"log/slog"
)

// Message is a single outbound email. When HTMLBody is set the message is
// sent as multipart/alternative with the text body as fallback.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NoopMailer discards messages. Used when mail delivery is disabled, so the
// rest of the workflow never needs to care whether mail is configured.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer creates a mailer that logs and drops every message.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// Send logs the message without delivering it.
func (m *NoopMailer) Send(ctx context.Context, msg Message) error {
	if m.logger != nil {
		m.logger.Info("mail delivery disabled, dropping message",
			slog.Any("to", msg.To),
			slog.String("subject", msg.Subject),
		)
	}
	return nil
}
