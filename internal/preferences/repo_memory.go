package preferences

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]JobPreference
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]JobPreference)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, pref JobPreference) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pref.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	r.data[pref.UserID] = pref
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (JobPreference, error) {
	if err := ctx.Err(); err != nil {
		return JobPreference{}, err
	}
	r.mu.RLock()
	pref, ok := r.data[userID]
	r.mu.RUnlock()
	if !ok {
		return JobPreference{}, ErrNotFound
	}
	return pref, nil
}
