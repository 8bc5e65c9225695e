package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobpilot-backend/internal/shared/telemetry"
)

// Handler applies a confirmed action's side effect.
type Handler interface {
	Execute(ctx context.Context, userID string, payload json.RawMessage) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, userID string, payload json.RawMessage) (Result, error)

func (f HandlerFunc) Execute(ctx context.Context, userID string, payload json.RawMessage) (Result, error) {
	return f(ctx, userID, payload)
}

// Result describes the completed action for the confirm response.
type Result struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier delivers the confirmation token to the user out of band.
type Notifier interface {
	SendConfirmation(ctx context.Context, recipient, kind, token string) error
}

// Coordinator owns the request/confirm lifecycle of deferred account
// actions: it mints tokens, persists exactly one live action per
// (user, kind), and dispatches confirmed payloads to the registered
// handler for their kind.
type Coordinator struct {
	repo     Repo
	notifier Notifier
	handlers map[Kind]Handler
	now      func() time.Time
}

// NewCoordinator builds a coordinator over repo, delivering tokens via
// notifier. Handlers are attached with Register before serving traffic.
func NewCoordinator(repo Repo, notifier Notifier) *Coordinator {
	return &Coordinator{
		repo:     repo,
		notifier: notifier,
		handlers: make(map[Kind]Handler),
		now:      time.Now,
	}
}

// Register attaches the handler for kind. Last registration wins.
func (c *Coordinator) Register(kind Kind, h Handler) {
	c.handlers[kind] = h
}

// Request records a pending action for (userID, kind), superseding any
// live one, and sends the confirmation token to recipient. It returns the
// token and its expiry so callers can surface them in dev environments.
func (c *Coordinator) Request(ctx context.Context, userID, recipient string, kind Kind, payload any) (string, time.Time, error) {
	if _, ok := c.handlers[kind]; !ok {
		return "", time.Time{}, ErrUnknownKind
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode payload: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return "", time.Time{}, err
	}

	now := c.now().UTC()
	action := PendingAction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Payload:   raw,
		Token:     token,
		CreatedAt: now,
	}
	if err := c.repo.Replace(ctx, action); err != nil {
		return "", time.Time{}, err
	}

	// The record is authoritative once persisted. A delivery failure is
	// logged and the token stays claimable; the caller still gets it.
	if err := c.notifier.SendConfirmation(ctx, recipient, string(kind), token); err != nil {
		telemetry.Error("pending action notification failed", map[string]any{
			"user_id": userID,
			"kind":    string(kind),
			"error":   err.Error(),
		})
	}

	return token, now.Add(TTL), nil
}

// Confirm consumes the token and executes the stored action. A token can
// succeed at most once; expired, superseded and consumed tokens are all
// reported as ErrInvalidToken.
func (c *Coordinator) Confirm(ctx context.Context, token string) (Result, error) {
	now := c.now().UTC()
	action, err := c.repo.ConsumeByToken(ctx, token, now.Add(-TTL))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Result{}, ErrInvalidToken
		}
		return Result{}, err
	}

	h, ok := c.handlers[action.Kind]
	if !ok {
		// A kind that was accepted at request time but has no handler now
		// indicates a deploy skew; the token is already burned.
		telemetry.Error("no handler for pending action kind", map[string]any{
			"kind": string(action.Kind),
		})
		return Result{}, ErrUnknownKind
	}

	result, err := h.Execute(ctx, action.UserID, action.Payload)
	if err != nil {
		return Result{}, fmt.Errorf("execute %s: %w", action.Kind, err)
	}
	telemetry.Info("pending action confirmed", map[string]any{
		"user_id": action.UserID,
		"kind":    string(action.Kind),
	})
	return result, nil
}
