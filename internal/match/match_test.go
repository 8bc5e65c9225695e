package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobpilot-backend/internal/jobs"
	"jobpilot-backend/internal/normalize"
	"jobpilot-backend/internal/preferences"
)

func TestScoreFullMatch(t *testing.T) {
	profile := normalize.CandidateProfile{Skills: []string{"Go", "PostgreSQL"}}
	pref := preferences.JobPreference{
		JobType:     preferences.JobTypeFullTime,
		LocationZip: "94105",
		JobPosition: "Backend Engineer",
	}
	job := jobs.Job{
		Title:       "Senior Backend Engineer",
		JobType:     "full_time",
		LocationZip: "94105",
		Skills:      []string{"go", "postgresql", "kubernetes"},
	}

	eval := Score(profile, pref, job)
	assert.Equal(t, 10, eval.Score)
	assert.True(t, eval.Eligible())
	assert.ElementsMatch(t, []string{"Go", "PostgreSQL"}, eval.MatchedSkills)
	assert.True(t, eval.JobTypeMatch)
	assert.True(t, eval.LocationMatch)
	assert.True(t, eval.PositionMatch)
}

func TestScoreNoMatch(t *testing.T) {
	profile := normalize.CandidateProfile{Skills: []string{"Java"}}
	pref := preferences.JobPreference{
		JobType:     preferences.JobTypeContract,
		LocationZip: "10001",
		JobPosition: "Data Scientist",
	}
	job := jobs.Job{
		Title:       "Line Cook",
		JobType:     "part_time",
		LocationZip: "60601",
		Description: "Prepare food in a fast-paced kitchen.",
	}

	eval := Score(profile, pref, job)
	assert.Equal(t, 0, eval.Score)
	assert.False(t, eval.Eligible())
}

func TestThresholdBoundary(t *testing.T) {
	// Skill overlap alone is worth exactly the threshold.
	profile := normalize.CandidateProfile{Skills: []string{"Go"}}
	job := jobs.Job{Title: "Engineer", Skills: []string{"Go"}}

	eval := Score(profile, preferences.JobPreference{}, job)
	assert.Equal(t, Threshold, eval.Score)
	assert.True(t, eval.Eligible())

	// Job type alone falls short.
	pref := preferences.JobPreference{JobType: preferences.JobTypeFullTime}
	eval = Score(normalize.CandidateProfile{}, pref, jobs.Job{JobType: "full_time"})
	assert.Equal(t, 2, eval.Score)
	assert.False(t, eval.Eligible())
}

func TestSkillMatchAgainstDescription(t *testing.T) {
	profile := normalize.CandidateProfile{Skills: []string{"Go", "Redis"}}
	job := jobs.Job{
		Title:       "Platform Engineer",
		Description: "We run Go services backed by Redis and MongoDB.",
	}

	eval := Score(profile, preferences.JobPreference{}, job)
	assert.ElementsMatch(t, []string{"Go", "Redis"}, eval.MatchedSkills)
}

func TestSkillTokenBoundaries(t *testing.T) {
	profile := normalize.CandidateProfile{Skills: []string{"Go"}}
	job := jobs.Job{
		Title:       "Database Engineer",
		Description: "MongoDB and Django experience required.",
	}

	eval := Score(profile, preferences.JobPreference{}, job)
	assert.Empty(t, eval.MatchedSkills)
}

func TestMultipleSkillOverlapScoresOnce(t *testing.T) {
	profile := normalize.CandidateProfile{Skills: []string{"Go", "Docker", "Kubernetes"}}
	job := jobs.Job{Title: "SRE", Skills: []string{"go", "docker", "kubernetes"}}

	eval := Score(profile, preferences.JobPreference{}, job)
	assert.Equal(t, 3, eval.Score)
	assert.Len(t, eval.MatchedSkills, 3)
}

func TestPositionMatchIsCaseInsensitive(t *testing.T) {
	pref := preferences.JobPreference{JobPosition: "backend engineer"}
	job := jobs.Job{Title: "BACKEND ENGINEER II"}

	eval := Score(normalize.CandidateProfile{}, pref, job)
	assert.True(t, eval.PositionMatch)
	assert.Equal(t, 3, eval.Score)
}
