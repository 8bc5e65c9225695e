package pending

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGReplace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pending_actions")).
		WithArgs("id-1", "u1", "password_reset", []byte(`{}`), "tok", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPGRepo(db)
	err = repo.Replace(context.Background(), PendingAction{
		ID: "id-1", UserID: "u1", Kind: KindPasswordReset,
		Payload: []byte(`{}`), Token: "tok", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGConsumeByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "action_kind", "payload", "token", "created_at"}).
		AddRow("id-1", "u1", "confirm_email", []byte(`{"email":"a@b.c"}`), "tok", now)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM pending_actions")).
		WithArgs("tok", now.Add(-TTL)).
		WillReturnRows(rows)

	repo := NewPGRepo(db)
	a, err := repo.ConsumeByToken(context.Background(), "tok", now.Add(-TTL))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if a.Kind != KindConfirmEmail || a.UserID != "u1" {
		t.Fatalf("unexpected action %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGConsumeByTokenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM pending_actions")).
		WithArgs("gone", now.Add(-TTL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action_kind", "payload", "token", "created_at"}))

	repo := NewPGRepo(db)
	if _, err := repo.ConsumeByToken(context.Background(), "gone", now.Add(-TTL)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
