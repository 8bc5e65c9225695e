package preferences

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

// Upsert replaces the user's preference record in a single statement so a
// concurrent reader never observes a partially-written record.
func (r *PGRepo) Upsert(ctx context.Context, pref JobPreference) error {
	const query = `
INSERT INTO job_preferences (user_id, job_type, location_zip, job_position, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE SET
  job_type = EXCLUDED.job_type,
  location_zip = EXCLUDED.location_zip,
  job_position = EXCLUDED.job_position,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		pref.UserID,
		string(pref.JobType),
		pref.LocationZip,
		pref.JobPosition,
	)
	return err
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (JobPreference, error) {
	const query = `
SELECT user_id, job_type, location_zip, job_position, updated_at
FROM job_preferences
WHERE user_id = $1
LIMIT 1`
	var pref JobPreference
	var jobType string
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID,
		&jobType,
		&pref.LocationZip,
		&pref.JobPosition,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobPreference{}, ErrNotFound
		}
		return JobPreference{}, err
	}
	pref.JobType = JobType(jobType)
	if updatedAt.Valid {
		pref.UpdatedAt = updatedAt.Time
	} else {
		pref.UpdatedAt = time.Now().UTC()
	}
	return pref, nil
}
