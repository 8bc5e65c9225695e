package account

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobpilot-backend/internal/applies"
	"jobpilot-backend/internal/pending"
	"jobpilot-backend/internal/resumes"
	"jobpilot-backend/internal/users"
)

type noopNotifier struct{ sent int }

func (n *noopNotifier) SendConfirmation(context.Context, string, string, string) error {
	n.sent++
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, users.Repo, *noopNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := users.NewMemoryRepo()
	if err := userRepo.Upsert(context.Background(), users.User{
		ID: "user-1", Email: "user1@example.com", FullName: "User One",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	notifier := &noopNotifier{}
	coord := pending.NewCoordinator(pending.NewMemoryRepo(), notifier)
	RegisterHandlers(coord, userRepo)

	handler := NewHandler(coord, users.NewService(userRepo), NewService(resumes.NewMemoryRepo(), applies.NewMemoryRepo()))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("userEmail", "user1@example.com")
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router, userRepo, notifier
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPasswordResetFlow(t *testing.T) {
	router, userRepo, notifier := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{
		"kind":        "password_reset",
		"newPassword": "hunter2hunter2",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("request action: status %d body %s", w.Code, w.Body.String())
	}
	if notifier.sent != 1 {
		t.Fatalf("expected one notification, got %d", notifier.sent)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token in response")
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": resp.Token})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}

	user, err := userRepo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !users.CheckPassword(user.PasswordHash, "hunter2hunter2") {
		t.Fatal("password not applied after confirm")
	}

	// The token must not work twice.
	w = doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": resp.Token})
	if w.Code != http.StatusGone {
		t.Fatalf("replayed token: status %d, want 410", w.Code)
	}
}

func TestSecondRequestInvalidatesFirstToken(t *testing.T) {
	router, userRepo, _ := newTestRouter(t)

	first := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{
		"kind": "profile_update", "fullName": "First Name",
	})
	second := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{
		"kind": "profile_update", "fullName": "Second Name",
	})
	if first.Code != http.StatusAccepted || second.Code != http.StatusAccepted {
		t.Fatalf("statuses %d/%d", first.Code, second.Code)
	}

	var t1, t2 struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &t1); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &t2); err != nil {
		t.Fatalf("decode second: %v", err)
	}

	if w := doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": t1.Token}); w.Code != http.StatusGone {
		t.Fatalf("stale token: status %d, want 410", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": t2.Token}); w.Code != http.StatusOK {
		t.Fatalf("live token: status %d body %s", w.Code, w.Body.String())
	}

	user, err := userRepo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.FullName != "Second Name" {
		t.Fatalf("full name %q, want the superseding value", user.FullName)
	}
}

func TestConfirmEmailFlow(t *testing.T) {
	router, userRepo, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{
		"kind": "confirm_email", "email": "new@example.com",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("request: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w := doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": resp.Token}); w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}

	user, err := userRepo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !user.EmailVerified || user.Email != "new@example.com" {
		t.Fatalf("unexpected user state %+v", user)
	}
}

func TestRequestRejectsShortPassword(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{
		"kind": "password_reset", "newPassword": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestRequestRejectsUnknownKind(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/account/actions", map[string]string{"kind": "delete_everything"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestClaimGuestMovesData(t *testing.T) {
	resumeRepo := resumes.NewMemoryRepo()
	appliesRepo := applies.NewMemoryRepo()
	if err := resumeRepo.Create(context.Background(), resumes.Resume{ID: "r1", UserID: "guest:g1", FileName: "cv.pdf"}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	if err := appliesRepo.Create(context.Background(), applies.ApplicationAttempt{ID: "a1", UserID: "guest:g1", JobID: "j1", Status: applies.StatusPrepared}); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	svc := NewService(resumeRepo, appliesRepo)
	result, err := svc.ClaimGuest(context.Background(), "guest:g1", "user-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if result.MigratedResumes != 1 || result.MigratedAttempts != 1 {
		t.Fatalf("unexpected claim result %+v", result)
	}

	if _, err := resumeRepo.GetByID(context.Background(), "user-1", "r1"); err != nil {
		t.Fatalf("resume not reassigned: %v", err)
	}
}

func TestConfirmGarbageToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/account/confirm", map[string]string{"token": "nope"})
	if w.Code != http.StatusGone {
		t.Fatalf("status %d, want 410", w.Code)
	}
}
