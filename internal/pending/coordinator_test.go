package pending

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, recipient, kind, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recipient+"/"+kind+"/"+token)
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	c := NewCoordinator(NewMemoryRepo(), n)
	return c, n
}

func recordingHandler(calls *[]string) Handler {
	return HandlerFunc(func(_ context.Context, userID string, payload json.RawMessage) (Result, error) {
		*calls = append(*calls, userID+":"+string(payload))
		return Result{Kind: KindConfirmEmail, Message: "done"}, nil
	})
}

func TestRequestAndConfirm(t *testing.T) {
	c, n := newTestCoordinator(t)
	var calls []string
	c.Register(KindConfirmEmail, recordingHandler(&calls))

	token, expiresAt, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, map[string]string{"email": "u1@example.com"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if got := time.Until(expiresAt); got < 23*time.Hour || got > 25*time.Hour {
		t.Fatalf("expiry %v not near 24h out", expiresAt)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.sent))
	}

	res, err := c.Confirm(context.Background(), token)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Message != "done" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(calls) != 1 {
		t.Fatalf("handler ran %d times", len(calls))
	}
}

func TestConfirmIsSingleUse(t *testing.T) {
	c, _ := newTestCoordinator(t)
	var calls []string
	c.Register(KindConfirmEmail, recordingHandler(&calls))

	token, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := c.Confirm(context.Background(), token); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := c.Confirm(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("second confirm: got %v, want ErrInvalidToken", err)
	}
	if len(calls) != 1 {
		t.Fatalf("handler ran %d times", len(calls))
	}
}

func TestNewRequestSupersedesOld(t *testing.T) {
	c, _ := newTestCoordinator(t)
	var calls []string
	c.Register(KindPasswordReset, recordingHandler(&calls))

	first, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindPasswordReset, map[string]string{"n": "1"})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindPasswordReset, map[string]string{"n": "2"})
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	if _, err := c.Confirm(context.Background(), first); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("superseded token: got %v, want ErrInvalidToken", err)
	}
	if _, err := c.Confirm(context.Background(), second); err != nil {
		t.Fatalf("live token: %v", err)
	}
	if len(calls) != 1 || calls[0] != `u1:{"n":"2"}` {
		t.Fatalf("unexpected handler calls %v", calls)
	}
}

func TestSupersedeIsPerKind(t *testing.T) {
	c, _ := newTestCoordinator(t)
	var calls []string
	c.Register(KindPasswordReset, recordingHandler(&calls))
	c.Register(KindConfirmEmail, recordingHandler(&calls))

	reset, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindPasswordReset, nil)
	if err != nil {
		t.Fatalf("reset request: %v", err)
	}
	verify, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, nil)
	if err != nil {
		t.Fatalf("verify request: %v", err)
	}

	if _, err := c.Confirm(context.Background(), reset); err != nil {
		t.Fatalf("reset confirm: %v", err)
	}
	if _, err := c.Confirm(context.Background(), verify); err != nil {
		t.Fatalf("verify confirm: %v", err)
	}
}

func TestConfirmExpiredToken(t *testing.T) {
	c, _ := newTestCoordinator(t)
	c.Register(KindConfirmEmail, recordingHandler(&[]string{}))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	token, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// Just inside the window still works on a fresh token elsewhere, but
	// exactly at 24h the record is no longer live.
	c.now = func() time.Time { return base.Add(TTL) }
	if _, err := c.Confirm(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestConfirmJustBeforeExpiry(t *testing.T) {
	c, _ := newTestCoordinator(t)
	c.Register(KindConfirmEmail, recordingHandler(&[]string{}))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	token, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	c.now = func() time.Time { return base.Add(TTL - time.Second) }
	if _, err := c.Confirm(context.Background(), token); err != nil {
		t.Fatalf("confirm just before expiry: %v", err)
	}
}

func TestRequestUnknownKind(t *testing.T) {
	c, _ := newTestCoordinator(t)
	if _, _, err := c.Request(context.Background(), "u1", "u1@example.com", Kind("bogus"), nil); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
}

func TestRequestSurvivesNotifierFailure(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	c := NewCoordinator(NewMemoryRepo(), n)
	c.Register(KindConfirmEmail, recordingHandler(&[]string{}))

	token, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindConfirmEmail, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token despite delivery failure")
	}

	// The record was kept, so the token is still claimable.
	if _, err := c.Confirm(context.Background(), token); err != nil {
		t.Fatalf("confirm: %v", err)
	}
}

func TestHandlerFailureBurnsToken(t *testing.T) {
	c, _ := newTestCoordinator(t)
	c.Register(KindPasswordReset, HandlerFunc(func(context.Context, string, json.RawMessage) (Result, error) {
		return Result{}, errors.New("db down")
	}))

	token, _, err := c.Request(context.Background(), "u1", "u1@example.com", KindPasswordReset, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := c.Confirm(context.Background(), token); err == nil {
		t.Fatal("expected handler error")
	}
	if _, err := c.Confirm(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token should be consumed, got %v", err)
	}
}

func TestMemoryRepoDeleteExpired(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()

	stale := PendingAction{ID: "a", UserID: "u1", Kind: KindConfirmEmail, Token: "t-old", CreatedAt: now.Add(-25 * time.Hour)}
	fresh := PendingAction{ID: "b", UserID: "u2", Kind: KindConfirmEmail, Token: "t-new", CreatedAt: now}
	if err := repo.Replace(context.Background(), stale); err != nil {
		t.Fatalf("replace stale: %v", err)
	}
	if err := repo.Replace(context.Background(), fresh); err != nil {
		t.Fatalf("replace fresh: %v", err)
	}

	n, err := repo.DeleteExpired(context.Background(), now.Add(-TTL))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d, want 1", n)
	}
	if _, err := repo.ConsumeByToken(context.Background(), "t-new", now.Add(-TTL)); err != nil {
		t.Fatalf("fresh token should survive sweep: %v", err)
	}
}
