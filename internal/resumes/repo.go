package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetCurrentByUser(ctx context.Context, userID string) (Resume, error)
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// ClaimGuest reassigns a guest identity's resumes to the authenticated
	// user and reports how many moved.
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
