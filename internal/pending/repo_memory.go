package pending

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu      sync.Mutex
	byToken map[string]PendingAction
	// byOwner indexes the live token per (user, kind) so Replace can
	// invalidate the superseded one.
	byOwner map[ownerKey]string
}

type ownerKey struct {
	userID string
	kind   Kind
}

// NewMemoryRepo returns an in-memory pending action repo for local runs
// and tests.
func NewMemoryRepo() Repo {
	return &memoryRepo{
		byToken: make(map[string]PendingAction),
		byOwner: make(map[ownerKey]string),
	}
}

func (r *memoryRepo) Replace(_ context.Context, action PendingAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownerKey{userID: action.UserID, kind: action.Kind}
	if old, ok := r.byOwner[key]; ok {
		delete(r.byToken, old)
	}
	r.byToken[action.Token] = action
	r.byOwner[key] = action.Token
	return nil
}

func (r *memoryRepo) ConsumeByToken(_ context.Context, token string, cutoff time.Time) (PendingAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byToken[token]
	if !ok || !a.CreatedAt.After(cutoff) {
		return PendingAction{}, ErrNotFound
	}
	delete(r.byToken, token)
	delete(r.byOwner, ownerKey{userID: a.UserID, kind: a.Kind})
	return a, nil
}

func (r *memoryRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, a := range r.byToken {
		if !a.CreatedAt.After(cutoff) {
			delete(r.byToken, token)
			delete(r.byOwner, ownerKey{userID: a.UserID, kind: a.Kind})
			n++
		}
	}
	return n, nil
}
