package applies

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local runs and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	byUser map[string][]ApplicationAttempt
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]ApplicationAttempt)}
}

func (r *MemoryRepo) Create(_ context.Context, attempt ApplicationAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[attempt.UserID] = append(r.byUser[attempt.UserID], attempt)
	return nil
}

func (r *MemoryRepo) CountSince(_ context.Context, userID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.byUser[userID] {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]ApplicationAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list := append([]ApplicationAttempt(nil), r.byUser[userID]...)
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *MemoryRepo) DeleteSince(_ context.Context, userID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.byUser[userID][:0]
	deleted := 0
	for _, a := range r.byUser[userID] {
		if a.CreatedAt.Before(since) {
			kept = append(kept, a)
		} else {
			deleted++
		}
	}
	r.byUser[userID] = kept
	return deleted, nil
}

func (r *MemoryRepo) ClaimGuest(_ context.Context, guestUserID, authedUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := r.byUser[guestUserID]
	if len(moved) == 0 {
		return 0, nil
	}
	for i := range moved {
		moved[i].UserID = authedUserID
	}
	r.byUser[authedUserID] = append(r.byUser[authedUserID], moved...)
	delete(r.byUser, guestUserID)
	return len(moved), nil
}

var _ Repo = (*MemoryRepo)(nil)
