package mailer

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// SMTPMailer delivers messages through an SMTP relay without authentication,
// the usual setup for a local postfix on the testbed host.
type SMTPMailer struct {
	host string
	port int
	from string
}

// NewSMTPMailer creates a mailer that relays through host:port with the given
// From header.
func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

// Send delivers the message. The context deadline, if any, bounds the dial.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "message has no recipients")
	}

	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))
	body := m.build(msg)

	// net/smtp has no context support; honor cancellation around the dial.
	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		done <- result{smtp.SendMail(addr, nil, envelopeAddress(m.from), msg.To, body)}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("send mail to %v: %w", msg.To, r.err)
		}
		return nil
	}
}

// build renders the RFC 5322 message bytes.
func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.TextBody)
		return []byte(b.String())
	}

	const boundary = "ndncert-mail-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.TextBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTMLBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// envelopeAddress strips a display name from a From header for the SMTP
// envelope, e.g. `Robot <noreply@example.com>` becomes `noreply@example.com`.
func envelopeAddress(from string) string {
	if start := strings.IndexByte(from, '<'); start >= 0 {
		if end := strings.IndexByte(from[start:], '>'); end > 0 {
			return from[start+1 : start+end]
		}
	}
	return from
}
