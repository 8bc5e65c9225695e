package applies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jobpilot-backend/internal/jobs"
	"jobpilot-backend/internal/match"
	"jobpilot-backend/internal/normalize"
	"jobpilot-backend/internal/notify"
	"jobpilot-backend/internal/plans"
	"jobpilot-backend/internal/preferences"
	"jobpilot-backend/internal/resumes"
	"jobpilot-backend/internal/shared/metrics"
	"jobpilot-backend/internal/shared/telemetry"
	"jobpilot-backend/internal/users"
)

// PlanResolver reports the quota policy governing a user.
type PlanResolver interface {
	PlanFor(ctx context.Context, userID string) (plans.Plan, error)
}

// Service coordinates the auto-apply pipeline: quota gate, resume
// normalization, job lookup, match decision and submission.
type Service struct {
	Repo     Repo
	Resumes  *resumes.Service
	Prefs    *preferences.Service
	Plans    PlanResolver
	Jobs     jobs.Client
	Users    *users.Service
	Notifier notify.Notifier

	now func() time.Time
}

// NewService wires the orchestrator.
func NewService(repo Repo, resumeSvc *resumes.Service, prefSvc *preferences.Service, planResolver PlanResolver, jobClient jobs.Client, userSvc *users.Service, notifier notify.Notifier) *Service {
	return &Service{
		Repo:     repo,
		Resumes:  resumeSvc,
		Prefs:    prefSvc,
		Plans:    planResolver,
		Jobs:     jobClient,
		Users:    userSvc,
		Notifier: notifier,
		now:      time.Now,
	}
}

// startOfDayUTC is the quota window boundary.
func startOfDayUTC(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply runs one auto-apply attempt. Failures after the job was confirmed
// valid are persisted as failed attempts and count against the quota;
// failures before that point persist nothing.
func (s *Service) Apply(ctx context.Context, userID, jobID, resumeID, coverLetter string) (ApplicationAttempt, error) {
	started := metrics.NowMillis()
	defer func() { metrics.ObserveApplyDurationMs(metrics.NowMillis() - started) }()

	now := s.now().UTC()

	plan, err := s.Plans.PlanFor(ctx, userID)
	if err != nil {
		return ApplicationAttempt{}, err
	}
	used, err := s.Repo.CountSince(ctx, userID, startOfDayUTC(now))
	if err != nil {
		return ApplicationAttempt{}, err
	}
	if used >= plan.MaxSubmissionsPerDay {
		metrics.IncApplicationRejected()
		return ApplicationAttempt{}, ErrQuotaExceeded
	}

	// A plan downgrade can leave the account holding more resumes than the
	// current plan allows; applying stays blocked until the excess is gone.
	resumeCount, err := s.Resumes.Repo.CountByUser(ctx, userID)
	if err != nil {
		return ApplicationAttempt{}, err
	}
	if resumeCount > plan.MaxResumes {
		metrics.IncApplicationRejected()
		return ApplicationAttempt{}, ErrResumeLimit
	}

	resume, err := s.lookupResume(ctx, userID, resumeID)
	if err != nil {
		metrics.IncApplicationRejected()
		return ApplicationAttempt{}, err
	}

	profile, err := s.normalizeResume(ctx, resume)
	if err != nil {
		metrics.IncApplicationRejected()
		return ApplicationAttempt{}, err
	}

	job, err := s.Jobs.GetJob(ctx, jobID)
	if err != nil {
		metrics.IncApplicationRejected()
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			return ApplicationAttempt{}, ErrJobNotFound
		case errors.Is(err, jobs.ErrTimeout):
			return ApplicationAttempt{}, ErrUpstreamTimeout
		default:
			return ApplicationAttempt{}, err
		}
	}

	pref := s.loadPreferences(ctx, userID)

	attempt := ApplicationAttempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		JobID:       job.ID,
		ResumeRef:   resume.ID,
		CoverLetter: coverLetter,
		CreatedAt:   now,
	}

	eval := match.Score(profile, pref, job)
	if !eval.Eligible() {
		attempt.Status = StatusFailed
		attempt.FailureReason = fmt.Sprintf("match score %d below threshold %d", eval.Score, match.Threshold)
		if err := s.Repo.Create(ctx, attempt); err != nil {
			return ApplicationAttempt{}, err
		}
		metrics.IncApplicationFailed()
		s.notifyOutcome(ctx, userID, job.Title, attempt)
		return attempt, ErrBelowThreshold
	}

	receipt, err := s.Jobs.PrepareApplication(ctx, jobs.Application{
		JobID:       job.ID,
		FullName:    profile.Name,
		Email:       profile.Email,
		Phone:       profile.Phone,
		ResumeText:  profile.Summary,
		CoverLetter: coverLetter,
	})
	if err != nil {
		attempt.Status = StatusFailed
		attempt.FailureReason = err.Error()
		if createErr := s.Repo.Create(ctx, attempt); createErr != nil {
			return ApplicationAttempt{}, createErr
		}
		metrics.IncApplicationFailed()
		s.notifyOutcome(ctx, userID, job.Title, attempt)
		if errors.Is(err, jobs.ErrTimeout) {
			return attempt, ErrUpstreamTimeout
		}
		return attempt, ErrPreparationFailed
	}

	attempt.Status = StatusPrepared
	attempt.ApplicationURL = receipt.ApplicationURL
	if err := s.Repo.Create(ctx, attempt); err != nil {
		return ApplicationAttempt{}, err
	}
	metrics.IncApplicationPrepared()
	s.notifyOutcome(ctx, userID, job.Title, attempt)
	return attempt, nil
}

func (s *Service) lookupResume(ctx context.Context, userID, resumeID string) (resumes.Resume, error) {
	var resume resumes.Resume
	var err error
	if resumeID != "" {
		resume, err = s.Resumes.Repo.GetByID(ctx, userID, resumeID)
	} else {
		resume, err = s.Resumes.Current(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return resumes.Resume{}, ErrNoResume
		}
		return resumes.Resume{}, err
	}
	return resume, nil
}

func (s *Service) normalizeResume(ctx context.Context, resume resumes.Resume) (normalize.CandidateProfile, error) {
	rc, err := s.Resumes.Open(ctx, resume)
	if err != nil {
		return normalize.CandidateProfile{}, fmt.Errorf("open resume: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return normalize.CandidateProfile{}, fmt.Errorf("read resume: %w", err)
	}
	return normalize.Normalize(ctx, data, resume.MimeType, resume.FileName)
}

// loadPreferences returns the stored preference or the zero value; absent
// preferences weaken the match score but do not block the attempt.
func (s *Service) loadPreferences(ctx context.Context, userID string) preferences.JobPreference {
	pref, err := s.Prefs.Get(ctx, userID)
	if err != nil {
		return preferences.JobPreference{}
	}
	return pref
}

func (s *Service) notifyOutcome(ctx context.Context, userID, jobTitle string, attempt ApplicationAttempt) {
	if s.Notifier == nil || s.Users == nil {
		return
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}
	if err := s.Notifier.SendApplicationUpdate(ctx, user.Email, jobTitle, attempt.Status, attempt.FailureReason); err != nil {
		telemetry.Warn("application update notification failed", map[string]any{
			"user_id": userID,
			"job_id":  attempt.JobID,
			"error":   err.Error(),
		})
	}
}

// Usage reports the day's quota consumption.
type Usage struct {
	PlanTier  plans.Tier `json:"planTier"`
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	ResetsAt  time.Time  `json:"resetsAt"`
}

func (s *Service) Usage(ctx context.Context, userID string) (Usage, error) {
	now := s.now().UTC()
	plan, err := s.Plans.PlanFor(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	used, err := s.Repo.CountSince(ctx, userID, startOfDayUTC(now))
	if err != nil {
		return Usage{}, err
	}
	remaining := plan.MaxSubmissionsPerDay - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		PlanTier:  plan.Tier,
		Used:      used,
		Limit:     plan.MaxSubmissionsPerDay,
		Remaining: remaining,
		ResetsAt:  startOfDayUTC(now).Add(24 * time.Hour),
	}, nil
}

// History lists the user's attempts, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]ApplicationAttempt, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ResetToday clears today's attempts for a user. Dev tooling only.
func (s *Service) ResetToday(ctx context.Context, userID string) (int, error) {
	return s.Repo.DeleteSince(ctx, userID, startOfDayUTC(s.now().UTC()))
}
