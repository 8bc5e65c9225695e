package applies

import (
	"errors"
	"time"
)

// Attempt statuses. Attempts are immutable once written.
const (
	StatusPrepared = "prepared"
	StatusFailed   = "failed"
)

// ApplicationAttempt records one auto-apply run against a job. Every
// persisted attempt, failed or not, counts against the day's quota.
type ApplicationAttempt struct {
	ID             string
	UserID         string
	JobID          string
	ResumeRef      string
	CoverLetter    string
	Status         string
	FailureReason  string
	ApplicationURL string
	CreatedAt      time.Time
}

var (
	ErrQuotaExceeded     = errors.New("daily submission quota exceeded")
	ErrJobNotFound       = errors.New("job not found")
	ErrBelowThreshold    = errors.New("candidate does not match the job")
	ErrPreparationFailed = errors.New("application preparation failed")
	ErrUpstreamTimeout   = errors.New("job provider timed out")
	ErrNoResume          = errors.New("no resume on file")
	ErrResumeLimit       = errors.New("stored resumes exceed the plan limit")
)
