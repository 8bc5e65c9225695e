package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation rejects malformed preference input before any persistence.
var ErrValidation = errors.New("invalid preferences")

// Service validates and stores job preferences.
type Service struct {
	Repo     Repo
	validate *validator.Validate
}

func NewService(repo Repo) *Service {
	return &Service{
		Repo:     repo,
		validate: validator.New(),
	}
}

// Set validates and upserts the user's preference record. Validation failures
// happen before any write, so a rejected call leaves prior state untouched.
func (s *Service) Set(ctx context.Context, userID string, pref JobPreference) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	pref.UserID = userID
	pref.JobPosition = strings.TrimSpace(pref.JobPosition)
	pref.LocationZip = strings.TrimSpace(pref.LocationZip)

	if err := s.validate.Struct(pref); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describeValidation(err))
	}

	return s.Repo.Upsert(ctx, pref)
}

// Get returns the user's active preference record.
func (s *Service) Get(ctx context.Context, userID string) (JobPreference, error) {
	if strings.TrimSpace(userID) == "" {
		return JobPreference{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return s.Repo.GetByUser(ctx, userID)
}

func describeValidation(err error) string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return "invalid input"
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		switch fe.Field() {
		case "LocationZip":
			fields = append(fields, "locationZip must be a 5-digit zip code")
		case "JobType":
			fields = append(fields, "jobType must be one of full_time, contract, part_time")
		default:
			fields = append(fields, strings.ToLower(fe.Field()[:1])+fe.Field()[1:]+" is invalid")
		}
	}
	return strings.Join(fields, "; ")
}
