package users

import (
	"time"

	"jobpilot-backend/internal/plans"
)

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"fullName"`
	EmailVerified bool       `json:"emailVerified"`
	PasswordHash  string     `json:"-"`
	PlanTier      plans.Tier `json:"planTier"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
