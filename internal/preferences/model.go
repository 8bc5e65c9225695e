package preferences

import "time"

// JobType enumerates supported employment types.
type JobType string

const (
	JobTypeFullTime JobType = "full_time"
	JobTypeContract JobType = "contract"
	JobTypePartTime JobType = "part_time"
)

// JobPreference is a user's active job-search preference record.
// One per user; overwritten on update, never soft-deleted.
type JobPreference struct {
	UserID      string    `json:"userId"`
	JobType     JobType   `json:"jobType" validate:"required,oneof=full_time contract part_time"`
	LocationZip string    `json:"locationZip" validate:"required,len=5,numeric"`
	JobPosition string    `json:"jobPosition" validate:"max=200"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
