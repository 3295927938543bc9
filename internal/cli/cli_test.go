package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/cv"
)

func TestDocxFilename(t *testing.T) {
	doc := &cv.Document{Name: "Jane Doe"}
	assert.Equal(t, "Jane_Doe_CV_EN.docx", docxFilename(doc, ""))
	assert.Equal(t, "Jane_Doe_CV_DE.docx", docxFilename(doc, "de"))
}

func TestJobSlug(t *testing.T) {
	assert.Equal(t, "senior_go_engineer", jobSlug("Senior Go Engineer.txt"))
	assert.Equal(t, "backend_2024", jobSlug("backend (2024).md"))
	assert.Equal(t, "plain", jobSlug("plain"))
}

func TestTrimSentences(t *testing.T) {
	text := "First. Second! Third? Fourth. Fifth."
	assert.Equal(t, "First. Second! Third?", trimSentences(text, 3))
	assert.Equal(t, text, trimSentences(text, 10))
	assert.Equal(t, "", trimSentences("  ", 3))
}

func TestLocalBio(t *testing.T) {
	doc := &cv.Document{
		Name:    "Jane Doe",
		Title:   "Staff Engineer",
		Profile: "Engineer with a decade of backend work. Led platform teams. Likes Go. Writes docs. Travels often.",
		Contact: cv.Contact{Email: "jane@example.com"},
		Skills: cv.Skills{
			Technical: []string{"go", "postgres", "kafka", "kubernetes", "terraform", "grpc", "redis", "aws", "gcp", "azure"},
		},
		Experience: []cv.Experience{
			{Title: "Staff Engineer", Org: "Acme", Start: "2020", End: "present", Bullets: []string{"Led the platform team", "Cut costs"}},
			{Title: "Senior Engineer", Org: "Initech", Start: "2016", End: "2020", Bullets: []string{"Built billing"}},
			{Title: "Engineer", Org: "Globex", Start: "2013", End: "2016"},
			{Title: "Junior", Org: "Umbrella", Start: "2011", End: "2013"},
		},
		Education: []cv.Education{
			{Degree: "BSc Computer Science", Institution: "State University"},
		},
		Links: []cv.Link{{Label: "GitHub", URL: "https://github.com/janedoe"}},
	}

	bio := localBio(doc)

	assert.Equal(t, "Jane Doe", bio.Name)
	assert.Equal(t, "jane@example.com", bio.Contact.Email)

	// At most four sentences of the profile.
	assert.Equal(t, "Engineer with a decade of backend work. Led platform teams. Likes Go. Writes docs.", bio.BioSummary)

	// Three most recent roles, first bullet each.
	require.Len(t, bio.CurrentRoles, 3)
	assert.Equal(t, "Staff Engineer", bio.CurrentRoles[0].Title)
	assert.Equal(t, []string{"Led the platform team", "Built billing"}, bio.CareerHighlights)

	assert.Equal(t, []string{"BSc Computer Science, State University"}, bio.Education)

	// Skills trimmed to eight.
	assert.Equal(t, "go, postgres, kafka, kubernetes, terraform, grpc, redis, aws", bio.SkillsSummary)

	require.Len(t, bio.Links, 1)
	assert.Equal(t, "GitHub", bio.Links[0].Label)
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a, b", joinNonEmpty(", ", "a", "", "b"))
	assert.Equal(t, "", joinNonEmpty(", ", "", ""))
}
