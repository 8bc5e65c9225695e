package applies

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, attempt ApplicationAttempt) error {
	const query = `
INSERT INTO application_attempts (id, user_id, job_id, resume_ref, cover_letter, status, failure_reason, application_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.JobID,
		attempt.ResumeRef,
		nullIfEmpty(attempt.CoverLetter),
		attempt.Status,
		nullIfEmpty(attempt.FailureReason),
		nullIfEmpty(attempt.ApplicationURL),
		attempt.CreatedAt,
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *PGRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM application_attempts
WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(&n)
	return n, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ApplicationAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, job_id, resume_ref, cover_letter, status, failure_reason, application_url, created_at
FROM application_attempts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ApplicationAttempt
	for rows.Next() {
		var a ApplicationAttempt
		var coverLetter, failureReason, applicationURL sql.NullString
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.JobID,
			&a.ResumeRef,
			&coverLetter,
			&a.Status,
			&failureReason,
			&applicationURL,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.CoverLetter = coverLetter.String
		a.FailureReason = failureReason.String
		a.ApplicationURL = applicationURL.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteSince(ctx context.Context, userID string, since time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
DELETE FROM application_attempts
WHERE user_id = $1 AND created_at >= $2`, userID, since)
	if err != nil {
		return 0, err
	}
	deleted, _ := res.RowsAffected()
	return int(deleted), nil
}

func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
UPDATE application_attempts SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

var _ Repo = (*PGRepo)(nil)
