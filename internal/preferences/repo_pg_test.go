package preferences

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	pref := JobPreference{
		UserID:      "user-1",
		JobType:     JobTypeContract,
		LocationZip: "94105",
		JobPosition: "platform engineer",
	}

	mock.ExpectExec("INSERT INTO job_preferences").
		WithArgs(pref.UserID, string(pref.JobType), pref.LocationZip, pref.JobPosition).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), pref); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"user_id", "job_type", "location_zip", "job_position", "updated_at"}).
		AddRow("user-1", "part_time", "10001", "barista", now)
	mock.ExpectQuery("SELECT user_id, job_type, location_zip, job_position, updated_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	pref, err := repo.GetByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if pref.JobType != JobTypePartTime || pref.LocationZip != "10001" {
		t.Fatalf("unexpected record: %+v", pref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT user_id, job_type, location_zip, job_position, updated_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "job_type", "location_zip", "job_position", "updated_at"}))

	_, err = repo.GetByUser(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
