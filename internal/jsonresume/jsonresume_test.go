package jsonresume

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/cv"
	"resumake/internal/errors"
)

func sampleDoc() *cv.Document {
	return &cv.Document{
		Name:  "Jane Doe",
		Title: "Platform Engineer",
		Photo: "assets/jane.png",
		Contact: cv.Contact{
			Address:     "Berlin, Germany",
			Phone:       "+1 555 0100",
			Email:       "jane@example.com",
			Nationality: "DE",
		},
		Links: []cv.Link{
			{Label: "GitHub", URL: "https://github.com/janedoe"},
		},
		Skills: cv.Skills{
			Leadership: []string{"Mentoring"},
			Technical:  []string{"Go", "Kubernetes"},
			Languages: []cv.Language{
				{Name: "English", Level: "fluent"},
			},
		},
		Profile: "Builds reliable platforms.",
		Experience: []cv.Experience{
			{
				Title:       "Staff Engineer",
				Org:         "Acme",
				Start:       "2021",
				End:         "present",
				Description: "Platform team lead.",
				Bullets:     []string{"Cut deploy times by 80%"},
			},
		},
		Education: []cv.Education{
			{
				Degree:      "BSc Computer Science",
				Institution: "TU Berlin",
				Start:       "2015",
				End:         "2018",
				Description: "Distributed systems focus.",
			},
		},
		Certifications: []cv.Certification{
			{Name: "CKA", Org: "CNCF", Start: "2022", End: "2022"},
		},
		Publications: []cv.Publication{
			{Title: "Scaling Pipelines", Year: 2023, Venue: "InfraCon"},
		},
		Volunteering: []cv.Volunteering{
			{Title: "Coach", Org: "CoderDojo", Start: "2019", End: "2020", Description: "Weekly workshops."},
		},
		References: "Available upon request.",
	}
}

func TestFromDocumentMapsAllSections(t *testing.T) {
	r := FromDocument(sampleDoc())

	require.Equal(t, "Jane Doe", r.Basics.Name)
	require.Equal(t, "Platform Engineer", r.Basics.Label)
	assert.Equal(t, "Builds reliable platforms.", r.Basics.Summary)
	assert.Equal(t, "assets/jane.png", r.Basics.Image)
	assert.Equal(t, "jane@example.com", r.Basics.Email)
	assert.Equal(t, "+1 555 0100", r.Basics.Phone)
	require.NotNil(t, r.Basics.Location)
	assert.Equal(t, "Berlin, Germany", r.Basics.Location.Address)
	assert.Equal(t, "DE", r.Basics.Location.CountryCode)
	require.Len(t, r.Basics.Profiles, 1)
	assert.Equal(t, Profile{Network: "GitHub", URL: "https://github.com/janedoe"}, r.Basics.Profiles[0])
	assert.Equal(t, "resumake", r.Meta.Generator)

	require.Len(t, r.Work, 1)
	assert.Equal(t, Work{
		Name:       "Acme",
		Position:   "Staff Engineer",
		StartDate:  "2021",
		EndDate:    "present",
		Summary:    "Platform team lead.",
		Highlights: []string{"Cut deploy times by 80%"},
	}, r.Work[0])

	require.Len(t, r.Education, 1)
	assert.Equal(t, "BSc Computer Science", r.Education[0].StudyType)
	assert.Equal(t, "Distributed systems focus.", r.Education[0].Area)

	require.Len(t, r.Skills, 2)
	assert.Equal(t, SkillGroup{Name: "Leadership", Keywords: []string{"Mentoring"}}, r.Skills[0])
	assert.Equal(t, SkillGroup{Name: "Technical", Keywords: []string{"Go", "Kubernetes"}}, r.Skills[1])
	require.Len(t, r.Languages, 1)
	assert.Equal(t, Language{Language: "English", Fluency: "fluent"}, r.Languages[0])

	require.Len(t, r.Volunteer, 1)
	assert.Equal(t, "CoderDojo", r.Volunteer[0].Organization)
	require.Len(t, r.Certificates, 1)
	assert.Equal(t, Certificate{Name: "CKA", Date: "2022", Issuer: "CNCF"}, r.Certificates[0])
	require.Len(t, r.Publications, 1)
	assert.Equal(t, Publication{Name: "Scaling Pipelines", Publisher: "InfraCon", ReleaseDate: "2023"}, r.Publications[0])
	require.Len(t, r.References, 1)
	assert.Equal(t, "Available upon request.", r.References[0].Reference)
}

func TestFromDocumentTrimsSummary(t *testing.T) {
	doc := sampleDoc()
	doc.Profile = "\n  Builds reliable platforms.\n"
	r := FromDocument(doc)
	assert.Equal(t, "Builds reliable platforms.", r.Basics.Summary)
}

func TestMarshalOmitsEmptySections(t *testing.T) {
	doc := &cv.Document{Name: "Jane Doe", Title: "Engineer"}
	data, err := Marshal(doc)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "\n  \"basics\"")
	for _, key := range []string{`"work"`, `"education"`, `"skills"`, `"location"`, `"profiles"`, `"summary"`, `"references"`} {
		assert.NotContains(t, out, key)
	}
}

func TestMarshalKeyOrder(t *testing.T) {
	data, err := Marshal(sampleDoc())
	require.NoError(t, err)

	out := string(data)
	prev := -1
	for _, key := range []string{`"basics"`, `"meta"`, `"work"`, `"education"`, `"skills"`, `"languages"`, `"volunteer"`, `"certificates"`, `"publications"`, `"references"`} {
		idx := strings.Index(out, key)
		require.NotEqual(t, -1, idx, "missing %s", key)
		assert.Greater(t, idx, prev, "%s out of order", key)
		prev = idx
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDoc()
	back := ToDocument(FromDocument(doc))
	require.Equal(t, doc, back)
}

func TestToDocumentSkillFolding(t *testing.T) {
	r := &Resume{
		Basics: Basics{Name: "Jane Doe"},
		Skills: []SkillGroup{
			{Name: "Programming Languages", Keywords: []string{"Go"}},
			{Name: "Leadership Competencies", Keywords: []string{"Mentoring"}},
			{Name: "Databases", Keywords: []string{"Postgres"}},
		},
	}
	doc := ToDocument(r)
	assert.Equal(t, []string{"Go", "Postgres"}, doc.Skills.Technical)
	assert.Equal(t, []string{"Mentoring"}, doc.Skills.Leadership)
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2023-05-01", 2023},
		{"2023", 2023},
		{"20", 20},
		{"", 0},
		{"draft", 0},
	}
	for _, tt := range tests {
		if got := releaseYear(tt.date); got != tt.want {
			t.Errorf("releaseYear(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		valid   bool
		mention string
	}{
		{"valid minimal", `{"basics": {"name": "Jane Doe"}}`, true, ""},
		{"missing basics", `{"work": []}`, false, "basics"},
		{"missing name", `{"basics": {"label": "Engineer"}}`, false, "name"},
		{"wrong section type", `{"basics": {"name": "Jane"}, "work": "nope"}`, false, "work"},
		{"broken json", `{"basics":`, false, "JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate([]byte(tt.data))
			if tt.valid {
				assert.Empty(t, problems)
				return
			}
			require.NotEmpty(t, problems)
			var joined strings.Builder
			for _, p := range problems {
				joined.WriteString(p.String())
			}
			assert.Contains(t, joined.String(), tt.mention)
		})
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	_, err := Parse([]byte(`{"basics": {"label": "Engineer"}}`))
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.True(t, stderrors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Problems)
}

func TestParseMapsValidDocument(t *testing.T) {
	data := `{
  "basics": {"name": "Jane Doe", "label": "Engineer"},
  "work": [{"name": "Acme", "position": "Staff Engineer", "startDate": "2021", "endDate": "", "highlights": ["Shipped"]}]
}`
	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Name)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Staff Engineer", doc.Experience[0].Title)
	assert.Equal(t, "Acme", doc.Experience[0].Org)
	assert.Equal(t, []string{"Shipped"}, doc.Experience[0].Bullets)
}
