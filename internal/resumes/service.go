package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jobpilot-backend/internal/normalize"
	"jobpilot-backend/internal/plans"
	"jobpilot-backend/internal/shared/storage/object"
)

// PlanResolver reports the quota policy governing a user.
type PlanResolver interface {
	PlanFor(ctx context.Context, userID string) (plans.Plan, error)
}

// Service contains business logic for resumes.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Plans PlanResolver
}

// Upload validates, stores and records a resume. The format gate runs
// before any bytes hit the object store, and the per-plan cap on stored
// resumes is enforced here. mimeType is the declared Content-Type of the
// upload; when it is missing or generic the gate sniffs the payload.
func (s *Service) Upload(ctx context.Context, userID, fileName, mimeType string, r io.Reader) (Resume, error) {
	if fileName == "" {
		return Resume{}, ErrInvalidInput
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Resume{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Resume{}, ErrInvalidInput
	}
	if !normalize.SupportedMimeType(mimeType, fileName, data) {
		return Resume{}, ErrUnsupportedFormat
	}

	plan, err := s.Plans.PlanFor(ctx, userID)
	if err != nil {
		return Resume{}, err
	}
	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return Resume{}, err
	}
	if count >= plan.MaxResumes {
		return Resume{}, ErrLimitReached
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Resume{}, err
	}

	resume := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Current returns the newest resume for a user.
func (s *Service) Current(ctx context.Context, userID string) (Resume, error) {
	if userID == "" {
		return Resume{}, errors.New("user id required")
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Open streams the stored bytes of a resume.
func (s *Service) Open(ctx context.Context, resume Resume) (io.ReadCloser, error) {
	return s.Store.Open(ctx, resume.StorageKey)
}
