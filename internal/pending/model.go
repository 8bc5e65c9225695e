package pending

import (
	"encoding/json"
	"errors"
	"time"
)

// Kind enumerates the account actions that require out-of-band confirmation.
type Kind string

const (
	KindPasswordReset Kind = "password_reset"
	KindConfirmEmail  Kind = "confirm_email"
	KindProfileUpdate Kind = "profile_update"
)

// TTL is the single validity window for a pending action. The lookup check
// and the background reaper both derive from this constant.
const TTL = 24 * time.Hour

// PendingAction is a durable, time-bounded record of an account action
// awaiting confirmation via a one-time token.
type PendingAction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Token     string          `json:"token"`
	CreatedAt time.Time       `json:"createdAt"`
}

var (
	// ErrNotFound means no live record matched; an expired record is
	// indistinguishable from a missing one by design.
	ErrNotFound = errors.New("pending action not found")

	// ErrInvalidToken is the user-facing terminal error for confirm.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUnknownKind rejects requests for kinds with no registered handler.
	ErrUnknownKind = errors.New("unknown action kind")
)

// ParseKind validates a raw action kind.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindPasswordReset, KindConfirmEmail, KindProfileUpdate:
		return Kind(raw), nil
	default:
		return "", ErrUnknownKind
	}
}
