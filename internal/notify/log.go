package notify

import (
	"context"

	"jobpilot-backend/internal/shared/telemetry"
)

// LogNotifier writes messages to the application log. It is the dev
// fallback when no delivery channel is configured.
type LogNotifier struct{}

func (LogNotifier) SendConfirmation(_ context.Context, recipient, kind, token string) error {
	telemetry.Info("confirmation token issued", map[string]any{
		"recipient": recipient,
		"kind":      kind,
		"token":     token,
	})
	return nil
}

func (LogNotifier) SendApplicationUpdate(_ context.Context, recipient, jobTitle, status, detail string) error {
	telemetry.Info("application update", map[string]any{
		"recipient": recipient,
		"job_title": jobTitle,
		"status":    status,
		"detail":    detail,
	})
	return nil
}

var _ Notifier = LogNotifier{}
