package users

import (
	"context"
	"sync"
	"time"

	"jobpilot-backend/internal/plans"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.users[user.ID]
	if !ok {
		user.CreatedAt = now
		if user.PlanTier == "" {
			user.PlanTier = plans.TierStudent
		}
	} else {
		user.CreatedAt = existing.CreatedAt
		user.EmailVerified = existing.EmailVerified
		user.PasswordHash = existing.PasswordHash
		user.PlanTier = existing.PlanTier
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	return r.update(ctx, userID, func(u *User) {
		u.PasswordHash = passwordHash
	})
}

func (r *MemoryRepo) MarkEmailVerified(ctx context.Context, userID, email string) error {
	return r.update(ctx, userID, func(u *User) {
		u.Email = email
		u.EmailVerified = true
	})
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) error {
	return r.update(ctx, userID, func(u *User) {
		if fullName != "" {
			u.FullName = fullName
		}
		if email != "" {
			u.Email = email
		}
	})
}

func (r *MemoryRepo) SetPlan(ctx context.Context, userID, planTier string) error {
	return r.update(ctx, userID, func(u *User) {
		u.PlanTier = plans.ParseTier(planTier)
	})
}

func (r *MemoryRepo) update(ctx context.Context, userID string, apply func(*User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	apply(&user)
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return nil
}
