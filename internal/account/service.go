package account

import (
	"context"
	"errors"
	"strings"

	"jobpilot-backend/internal/applies"
	"jobpilot-backend/internal/resumes"
)

// Service migrates guest-owned data into an authenticated account.
type Service struct {
	ResumeRepo  resumes.Repo
	AppliesRepo applies.Repo
}

// ClaimResult reports what a guest claim moved.
type ClaimResult struct {
	MigratedResumes  int `json:"migratedResumes"`
	MigratedAttempts int `json:"migratedAttempts"`
}

func NewService(resumeRepo resumes.Repo, appliesRepo applies.Repo) *Service {
	return &Service{ResumeRepo: resumeRepo, AppliesRepo: appliesRepo}
}

// ClaimGuest reassigns resumes and application attempts from a guest
// identity to the authenticated user. Moved attempts count against the new
// owner's quota from now on.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}
	if guestUserID == authedUserID {
		return ClaimResult{}, errors.New("cannot claim your own identity")
	}

	resumeCount, err := s.ResumeRepo.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	attemptCount, err := s.AppliesRepo.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: resumeCount, MigratedAttempts: attemptCount}, nil
}
