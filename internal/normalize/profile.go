package normalize

import (
	"context"
	"regexp"
	"strings"
)

// CandidateProfile is the structured, best-effort view of a resume.
type CandidateProfile struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Skills        []string `json:"skills"`
	Summary       string   `json:"summary"`
	Truncated     bool     `json:"truncated"`
	LowConfidence bool     `json:"lowConfidence"`
}

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)

	experienceHeading = regexp.MustCompile(`(?i)^\s*(work\s+)?(experience|employment( history)?|professional background)\s*:?\s*$`)
)

// knownSkills is the recognized-skill vocabulary matched against resume text.
var knownSkills = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "c++", "c#",
	"ruby", "php", "swift", "kotlin", "rust", "scala", "sql", "nosql",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"docker", "kubernetes", "terraform", "aws", "gcp", "azure",
	"react", "angular", "vue", "node.js", "django", "spring", "rails",
	"rest", "graphql", "grpc", "kafka", "rabbitmq", "microservices",
	"ci/cd", "git", "linux", "agile", "scrum",
	"machine learning", "data analysis", "project management",
	"customer service", "sales", "marketing", "accounting", "recruiting",
}

var skillPatterns = buildSkillPatterns()

func buildSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(knownSkills))
	for _, skill := range knownSkills {
		// Trailing +/# would mean a different token (c vs c++ vs c#);
		// sentence punctuation like "." or "," is a boundary.
		patterns[skill] = regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(skill) + `($|[^a-z0-9+#])`)
	}
	return patterns
}

// Normalize extracts bounded plain text from the document and derives a
// structured candidate profile. It performs no I/O beyond the passed bytes
// and is safe to retry.
func Normalize(ctx context.Context, document []byte, mimeType string, fileName string) (CandidateProfile, error) {
	extracted, err := extractText(ctx, document, mimeType, fileName)
	if err != nil {
		return CandidateProfile{}, err
	}
	profile := deriveProfile(extracted.Text)
	profile.Truncated = extracted.Truncated
	return profile, nil
}

func deriveProfile(text string) CandidateProfile {
	profile := CandidateProfile{
		Email:   emailRegex.FindString(text),
		Phone:   strings.TrimSpace(phoneRegex.FindString(text)),
		Skills:  matchSkills(text),
		Summary: deriveSummary(text),
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if candidate := strings.TrimSpace(line); candidate != "" {
			// The name is almost always the first non-empty line; skip it when
			// that line is just a contact detail.
			if !strings.Contains(candidate, "@") && len(candidate) <= 80 {
				profile.Name = candidate
			}
			break
		}
	}

	if profile.Email == "" && profile.Phone == "" {
		profile.LowConfidence = true
	}
	return profile
}

func matchSkills(text string) []string {
	var found []string
	for _, skill := range knownSkills {
		if skillPatterns[skill].MatchString(text) {
			found = append(found, skill)
		}
	}
	return found
}

// deriveSummary returns the paragraph following an experience heading, or the
// leading text as a fallback, capped to keep the profile compact.
func deriveSummary(text string) string {
	const maxSummary = 600

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !experienceHeading.MatchString(line) {
			continue
		}
		var block []string
		for _, rest := range lines[i+1:] {
			trimmed := strings.TrimSpace(rest)
			if trimmed == "" {
				if len(block) > 0 {
					break
				}
				continue
			}
			block = append(block, trimmed)
		}
		if len(block) > 0 {
			return clipSummary(strings.Join(block, " "), maxSummary)
		}
	}

	return clipSummary(strings.TrimSpace(text), maxSummary)
}

func clipSummary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	clipped := s[:max]
	if idx := strings.LastIndex(clipped, " "); idx > max/2 {
		clipped = clipped[:idx]
	}
	return clipped
}
