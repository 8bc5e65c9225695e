package account

import (
	"context"
	"encoding/json"
	"fmt"

	"jobpilot-backend/internal/pending"
	"jobpilot-backend/internal/users"
)

// RegisterHandlers wires the account action executors into the coordinator.
// Each executor receives the payload staged at request time and applies it
// against the user store.
func RegisterHandlers(coord *pending.Coordinator, repo users.Repo) {
	coord.Register(pending.KindPasswordReset, pending.HandlerFunc(
		func(ctx context.Context, userID string, raw json.RawMessage) (pending.Result, error) {
			var p PasswordResetPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return pending.Result{}, fmt.Errorf("decode password reset payload: %w", err)
			}
			if err := repo.SetPassword(ctx, userID, p.NewPasswordHash); err != nil {
				return pending.Result{}, err
			}
			return pending.Result{Kind: pending.KindPasswordReset, Message: "password updated"}, nil
		}))

	coord.Register(pending.KindConfirmEmail, pending.HandlerFunc(
		func(ctx context.Context, userID string, raw json.RawMessage) (pending.Result, error) {
			var p ConfirmEmailPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return pending.Result{}, fmt.Errorf("decode confirm email payload: %w", err)
			}
			if err := repo.MarkEmailVerified(ctx, userID, p.Email); err != nil {
				return pending.Result{}, err
			}
			return pending.Result{Kind: pending.KindConfirmEmail, Message: "email verified"}, nil
		}))

	coord.Register(pending.KindProfileUpdate, pending.HandlerFunc(
		func(ctx context.Context, userID string, raw json.RawMessage) (pending.Result, error) {
			var p ProfileUpdatePayload
			if err := json.Unmarshal(raw, &p); err != nil {
				return pending.Result{}, fmt.Errorf("decode profile update payload: %w", err)
			}
			if err := repo.UpdateProfile(ctx, userID, p.FullName, p.Email); err != nil {
				return pending.Result{}, err
			}
			return pending.Result{Kind: pending.KindProfileUpdate, Message: "profile updated"}, nil
		}))
}
