package pending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type pgRepo struct {
	db *sql.DB
}

// NewPGRepo returns a Postgres-backed pending action repo.
func NewPGRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

func (r *pgRepo) Replace(ctx context.Context, action PendingAction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_actions (id, user_id, action_kind, payload, token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, action_kind) DO UPDATE SET
			id = EXCLUDED.id,
			payload = EXCLUDED.payload,
			token = EXCLUDED.token,
			created_at = EXCLUDED.created_at
	`, action.ID, action.UserID, string(action.Kind), []byte(action.Payload), action.Token, action.CreatedAt)
	if err != nil {
		return fmt.Errorf("replace pending action: %w", err)
	}
	return nil
}

func (r *pgRepo) ConsumeByToken(ctx context.Context, token string, cutoff time.Time) (PendingAction, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM pending_actions
		WHERE token = $1 AND created_at > $2
		RETURNING id, user_id, action_kind, payload, token, created_at
	`, token, cutoff)

	var a PendingAction
	var kind string
	if err := row.Scan(&a.ID, &a.UserID, &kind, &a.Payload, &a.Token, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PendingAction{}, ErrNotFound
		}
		return PendingAction{}, fmt.Errorf("consume pending action: %w", err)
	}
	a.Kind = Kind(kind)
	return a, nil
}

func (r *pgRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_actions WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired pending actions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired pending actions: %w", err)
	}
	return n, nil
}
