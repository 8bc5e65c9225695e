package preferences

import (
	"context"
	"errors"
	"testing"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	valid := []string{"00000", "12345", "90210", "99999"}
	for _, zip := range valid {
		pref := JobPreference{
			JobType:     JobTypeFullTime,
			LocationZip: zip,
			JobPosition: "backend engineer",
		}
		if err := svc.Set(ctx, "user-1", pref); err != nil {
			t.Fatalf("Set zip=%s: %v", zip, err)
		}
		got, err := svc.Get(ctx, "user-1")
		if err != nil {
			t.Fatalf("Get zip=%s: %v", zip, err)
		}
		if got.LocationZip != zip {
			t.Fatalf("expected zip %s, got %s", zip, got.LocationZip)
		}
		if got.JobType != JobTypeFullTime || got.JobPosition != "backend engineer" {
			t.Fatalf("stored record differs: %+v", got)
		}
	}
}

func TestSetRejectsBadZipBeforePersistence(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	bad := []string{"", "1234", "123456", "12a45", "abcde", "12 45", "12345-6789"}
	for _, zip := range bad {
		pref := JobPreference{JobType: JobTypeContract, LocationZip: zip}
		err := svc.Set(ctx, "user-2", pref)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("zip=%q: expected ErrValidation, got %v", zip, err)
		}
	}

	if _, err := svc.Get(ctx, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no record after rejected writes, got %v", err)
	}
}

func TestSetRejectsUnknownJobType(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	err := svc.Set(context.Background(), "user-3", JobPreference{
		JobType:     JobType("freelance"),
		LocationZip: "12345",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetOverwritesExistingRecord(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	first := JobPreference{JobType: JobTypeFullTime, LocationZip: "11111", JobPosition: "analyst"}
	second := JobPreference{JobType: JobTypePartTime, LocationZip: "22222", JobPosition: "designer"}

	if err := svc.Set(ctx, "user-4", first); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := svc.Set(ctx, "user-4", second); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := svc.Get(ctx, "user-4")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LocationZip != "22222" || got.JobType != JobTypePartTime {
		t.Fatalf("expected second record to win, got %+v", got)
	}
}
