package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends messages through an SMTP relay.
type SMTPNotifier struct {
	dialer      *gomail.Dialer
	from        string
	confirmBase string
}

// NewSMTPNotifier constructs an SMTP notifier. confirmBase is the UI URL
// confirmation tokens are appended to; empty means raw tokens in the body.
func NewSMTPNotifier(host string, port int, username, password, from, confirmBase string) (*SMTPNotifier, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("SMTP_FROM is required")
	}
	return &SMTPNotifier{
		dialer:      gomail.NewDialer(host, port, username, password),
		from:        from,
		confirmBase: confirmBase,
	}, nil
}

func (n *SMTPNotifier) SendConfirmation(ctx context.Context, recipient, kind, token string) error {
	subject, body := renderConfirmation(n.confirmBase, kind, token)
	return n.send(ctx, recipient, subject, body)
}

func (n *SMTPNotifier) SendApplicationUpdate(ctx context.Context, recipient, jobTitle, status, detail string) error {
	subject, body := renderApplicationUpdate(jobTitle, status, detail)
	return n.send(ctx, recipient, subject, body)
}

// Deliver sends an already-rendered queued message. Used by the worker
// draining the notification queue.
func (n *SMTPNotifier) Deliver(ctx context.Context, msg Message) error {
	return n.send(ctx, msg.Recipient, msg.Subject, msg.Body)
}

func (n *SMTPNotifier) send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var _ Notifier = (*SMTPNotifier)(nil)
