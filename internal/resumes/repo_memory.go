package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for local runs and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	byUser map[string][]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Resume)}
}

func (r *MemoryRepo) Create(_ context.Context, resume Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[resume.UserID] = append(r.byUser[resume.UserID], resume)
	return nil
}

// sortedByUser returns the user's resumes newest-first.
func (r *MemoryRepo) sortedByUser(userID string) []Resume {
	list := append([]Resume(nil), r.byUser[userID]...)
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *MemoryRepo) GetCurrentByUser(_ context.Context, userID string) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sortedByUser(userID)
	if len(list) == 0 {
		return Resume{}, ErrNotFound
	}
	return list[0], nil
}

func (r *MemoryRepo) GetByID(_ context.Context, userID, resumeID string) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resume := range r.byUser[userID] {
		if resume.ID == resumeID {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list := r.sortedByUser(userID)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *MemoryRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser[userID]), nil
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
