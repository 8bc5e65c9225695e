package normalize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDerivesProfileFromDocx(t *testing.T) {
	data := buildDocx(t,
		docxParagraph("Jane Doe")+
			docxParagraph("jane@example.com | +1 (415) 555-0100")+
			docxParagraph("Experience")+
			docxParagraph("Built Go microservices on Kubernetes with PostgreSQL and Redis.")+
			docxParagraph("Skills: Go, Docker, SQL"),
	)

	profile, err := Normalize(context.Background(), data, mimeDOCX, "resume.docx")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Contains(t, profile.Phone, "415")
	assert.Contains(t, profile.Skills, "go")
	assert.Contains(t, profile.Skills, "kubernetes")
	assert.Contains(t, profile.Skills, "docker")
	assert.Contains(t, profile.Summary, "microservices")
	assert.False(t, profile.LowConfidence)
}

func TestNormalizeMarksLowConfidenceWithoutContact(t *testing.T) {
	data := buildDocx(t, docxParagraph("Anonymous Candidate")+docxParagraph("Ten years of accounting."))

	profile, err := Normalize(context.Background(), data, mimeDOCX, "resume.docx")
	require.NoError(t, err)

	assert.True(t, profile.LowConfidence)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Phone)
}

func TestDeriveSummaryPrefersExperienceBlock(t *testing.T) {
	text := "Jane Doe\njane@example.com\n\nEducation\nBS Computer Science\n\nExperience\nLed a payments team.\nShipped three releases.\n\nHobbies\nChess"
	summary := deriveSummary(text)
	assert.Contains(t, summary, "payments team")
	assert.Contains(t, summary, "three releases")
	assert.NotContains(t, summary, "Chess")
}

func TestSkillMatchingDoesNotMatchSubstrings(t *testing.T) {
	profile := deriveProfile("Maria Santiago\nmaria@example.com\nI enjoy mango farming and cargo logistics.")
	assert.NotContains(t, profile.Skills, "go")
}

func TestSkillMatchingIsCaseInsensitive(t *testing.T) {
	profile := deriveProfile("A B\na@b.com\nExpert in GOLANG and PostgreSQL.")
	assert.Contains(t, profile.Skills, "golang")
	assert.Contains(t, profile.Skills, "postgresql")
}

func TestSkillMatchingAcceptsSentencePunctuation(t *testing.T) {
	profile := deriveProfile("A B\na@b.com\nKnows Docker, Kubernetes. Also node.js and C++.")
	assert.Contains(t, profile.Skills, "docker")
	assert.Contains(t, profile.Skills, "kubernetes")
	assert.Contains(t, profile.Skills, "node.js")
	assert.Contains(t, profile.Skills, "c++")
}
