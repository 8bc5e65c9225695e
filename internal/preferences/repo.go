package preferences

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("preferences not found")

// Repo defines persistence operations for job preferences.
type Repo interface {
	Upsert(ctx context.Context, pref JobPreference) error
	GetByUser(ctx context.Context, userID string) (JobPreference, error)
}
