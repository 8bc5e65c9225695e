package jobs

import "errors"

// Job is a posting fetched from the upstream job provider.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	JobType     string   `json:"jobType"`
	LocationZip string   `json:"locationZip"`
	Skills      []string `json:"skills"`
	ApplyURL    string   `json:"applyUrl"`
}

// Application is the submission package handed to the provider.
type Application struct {
	JobID       string `json:"jobId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ResumeText  string `json:"resumeText"`
	CoverLetter string `json:"coverLetter"`
}

// Receipt acknowledges an accepted application.
type Receipt struct {
	ApplicationURL string `json:"applicationUrl"`
}

var (
	// ErrNotFound means the upstream has no such posting.
	ErrNotFound = errors.New("job not found")

	// ErrTimeout means the upstream did not answer within the deadline,
	// including after the single retry.
	ErrTimeout = errors.New("job provider timed out")

	// ErrUpstream covers provider-side rejections and 5xx answers.
	ErrUpstream = errors.New("job provider error")
)
