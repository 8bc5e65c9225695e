// Package match scores a candidate against a job posting. The score is a
// coarse 0-10 fit signal used to gate auto-apply, not a ranking.
package match

import (
	"strings"

	"jobpilot-backend/internal/jobs"
	"jobpilot-backend/internal/normalize"
	"jobpilot-backend/internal/preferences"
)

const (
	// Threshold is the minimum score at which an application proceeds.
	Threshold = 3

	maxScore = 10

	skillPoints    = 3
	jobTypePoints  = 2
	zipPoints      = 2
	positionPoints = 3
)

// Evaluation explains a score so the attempt record can carry it.
type Evaluation struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills,omitempty"`
	JobTypeMatch  bool     `json:"jobTypeMatch"`
	LocationMatch bool     `json:"locationMatch"`
	PositionMatch bool     `json:"positionMatch"`
}

// Eligible reports whether the score clears the auto-apply gate.
func (e Evaluation) Eligible() bool { return e.Score >= Threshold }

// Score rates how well the candidate and their preferences fit the job.
func Score(profile normalize.CandidateProfile, pref preferences.JobPreference, job jobs.Job) Evaluation {
	var eval Evaluation

	eval.MatchedSkills = overlapSkills(profile.Skills, job)
	if len(eval.MatchedSkills) > 0 {
		eval.Score += skillPoints
	}

	if pref.JobType != "" && strings.EqualFold(string(pref.JobType), job.JobType) {
		eval.JobTypeMatch = true
		eval.Score += jobTypePoints
	}

	if pref.LocationZip != "" && pref.LocationZip == job.LocationZip {
		eval.LocationMatch = true
		eval.Score += zipPoints
	}

	if pref.JobPosition != "" && containsFold(job.Title, pref.JobPosition) {
		eval.PositionMatch = true
		eval.Score += positionPoints
	}

	if eval.Score > maxScore {
		eval.Score = maxScore
	}
	return eval
}

// overlapSkills intersects the candidate's skills with the posting. When the
// posting carries no explicit skill list, the description text stands in.
func overlapSkills(skills []string, job jobs.Job) []string {
	if len(skills) == 0 {
		return nil
	}

	var matched []string
	if len(job.Skills) > 0 {
		wanted := make(map[string]struct{}, len(job.Skills))
		for _, s := range job.Skills {
			wanted[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
		}
		for _, s := range skills {
			if _, ok := wanted[strings.ToLower(s)]; ok {
				matched = append(matched, s)
			}
		}
		return matched
	}

	haystack := job.Title + "\n" + job.Description
	for _, s := range skills {
		if containsToken(haystack, s) {
			matched = append(matched, s)
		}
	}
	return matched
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// containsToken matches a skill on word boundaries so "go" does not fire
// inside "mongodb".
func containsToken(text, token string) bool {
	text = strings.ToLower(text)
	token = strings.ToLower(token)
	idx := 0
	for {
		i := strings.Index(text[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		if boundaryAt(text, start-1) && boundaryAt(text, end) {
			return true
		}
		idx = start + 1
	}
}

func boundaryAt(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#')
}
