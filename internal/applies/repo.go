package applies

import (
	"context"
	"time"
)

// Repo persists application attempts.
type Repo interface {
	Create(ctx context.Context, attempt ApplicationAttempt) error
	// CountSince counts the user's attempts created at or after since.
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ApplicationAttempt, error)
	// DeleteSince removes attempts created at or after since. Dev tooling only.
	DeleteSince(ctx context.Context, userID string, since time.Time) (int, error)
	// ClaimGuest reassigns a guest identity's attempts to the authenticated
	// user and reports how many moved.
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
