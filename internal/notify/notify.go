// Package notify delivers user-facing messages: confirmation tokens for
// deferred account actions and auto-apply outcome updates.
package notify

import "context"

// Notifier delivers messages out of band.
type Notifier interface {
	// SendConfirmation delivers the one-time token for an account action.
	SendConfirmation(ctx context.Context, recipient, kind, token string) error

	// SendApplicationUpdate tells the user how an auto-apply attempt ended.
	SendApplicationUpdate(ctx context.Context, recipient, jobTitle, status, detail string) error
}
