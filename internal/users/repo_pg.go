package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobpilot-backend/internal/plans"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, email_verified, plan_tier, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  updated_at = now()`
	tier := user.PlanTier
	if tier == "" {
		tier = plans.TierStudent
	}
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		user.EmailVerified,
		string(tier),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name, email_verified, password_hash, plan_tier, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var fullName sql.NullString
	var passwordHash sql.NullString
	var planTier string
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&user.EmailVerified,
		&passwordHash,
		&planTier,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if fullName.Valid {
		user.FullName = fullName.String
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	user.PlanTier = plans.ParseTier(planTier)
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func (r *PGRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, passwordHash, userID)
}

func (r *PGRepo) MarkEmailVerified(ctx context.Context, userID, email string) error {
	return r.exec(ctx, `UPDATE users SET email = $1, email_verified = TRUE, updated_at = now() WHERE id = $2`, email, userID)
}

func (r *PGRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) error {
	return r.exec(ctx, `
UPDATE users SET
  full_name = COALESCE(NULLIF($1, ''), full_name),
  email = COALESCE(NULLIF($2, ''), email),
  updated_at = now()
WHERE id = $3`, fullName, email, userID)
}

func (r *PGRepo) SetPlan(ctx context.Context, userID, planTier string) error {
	return r.exec(ctx, `UPDATE users SET plan_tier = $1, updated_at = now() WHERE id = $2`, planTier, userID)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
