// Package mail delivers outbound notification email. Delivery is best-effort;
// callers decide whether a send failure is fatal.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/karyasoft/backoffice/pkg/slogx"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Username string // empty disables auth
	Password string
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.From, msg.To, msg.Subject, msg.Body)

	if err := smtp.SendMail(m.Addr, auth, m.From, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in dev
// and when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("outbound email (not sent, no relay configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
