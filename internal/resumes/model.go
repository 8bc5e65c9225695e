package resumes

import "time"

// Resume is an uploaded resume document owned by a user. The newest upload
// is the one auto-apply draws from.
type Resume struct {
	ID        string
	UserID    string
	FileName  string
	MimeType  string
	SizeBytes int64
	// StorageKey locates the raw bytes in the object store.
	StorageKey string
	CreatedAt  time.Time
}
