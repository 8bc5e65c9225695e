package jobs

import "context"

// Client talks to the upstream job provider.
type Client interface {
	// GetJob fetches a posting. Unknown IDs yield ErrNotFound.
	GetJob(ctx context.Context, jobID string) (Job, error)

	// PrepareApplication submits an application package and returns the
	// provider's receipt.
	PrepareApplication(ctx context.Context, app Application) (Receipt, error)
}
