package applies

import "time"

// AttemptResponse is the outward-facing representation of an attempt.
type AttemptResponse struct {
	AttemptID      string    `json:"attemptId"`
	JobID          string    `json:"jobId"`
	ResumeID       string    `json:"resumeId"`
	Status         string    `json:"status"`
	FailureReason  string    `json:"failureReason,omitempty"`
	ApplicationURL string    `json:"applicationUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toResponse(attempt ApplicationAttempt) AttemptResponse {
	return AttemptResponse{
		AttemptID:      attempt.ID,
		JobID:          attempt.JobID,
		ResumeID:       attempt.ResumeRef,
		Status:         attempt.Status,
		FailureReason:  attempt.FailureReason,
		ApplicationURL: attempt.ApplicationURL,
		CreatedAt:      attempt.CreatedAt,
	}
}
