package pending

import (
	"context"
	"time"
)

// Repo persists pending actions. Implementations must make ConsumeByToken
// atomic with respect to concurrent callers: at most one caller observes a
// given token.
type Repo interface {
	// Replace stores the action, displacing any live record for the same
	// (user, kind) pair. The displaced record's token is dead afterwards.
	Replace(ctx context.Context, action PendingAction) error

	// ConsumeByToken deletes and returns the record for token, but only if
	// it was created after cutoff. Missing, already-consumed and expired
	// records all yield ErrNotFound.
	ConsumeByToken(ctx context.Context, token string, cutoff time.Time) (PendingAction, error)

	// DeleteExpired removes records created at or before cutoff and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
