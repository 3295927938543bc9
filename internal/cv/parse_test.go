package cv

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"resumake/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = `
name: Jane Doe
title: Senior Platform Engineer
photo: assets/photo.jpg
contact:
  address: 123 Main St, Springfield
  phone: "+1 555 0100"
  email: jane@example.com
  nationality: American
links:
  - label: GitHub
    url: https://github.com/janedoe
  - label: Website
    url: https://janedoe.dev
skills:
  leadership:
    - Team mentoring
    - Incident command
  technical:
    - Go
    - Kubernetes
    - Terraform
  languages:
    - name: English
      level: native
    - name: German
      level: fluent
profile: >
  Platform engineer with ten years of experience building
  delivery infrastructure.
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    description: Platform team lead.
    bullets:
      - Built the deployment pipeline
      - Cut release time by 80%
    tech_stack:
      - Go
      - AWS
  - title: Senior Engineer
    org: Initech
    start: 2017
    end: 2021
education:
  - degree: BSc Computer Science
    institution: State University
    start: 2010
    end: 2014
    details: Graduated with honors
certifications:
  - name: CKA
    org: CNCF
    start: 2022
    end: 2025
publications:
  - title: Scaling CI at Example Corp
    year: 2023
    venue: SREcon
volunteering:
  - title: Mentor
    org: Code Club
    start: 2019
    end: Present
testimonials:
  - name: John Smith
    role: VP Engineering
    org: Example Corp
    quote: Jane is the engineer you want in an incident.
references: Available upon request
awards:
  - Employee of the Year 2022
  - name: Best Paper
    year: "2023"
`

func TestParseSampleDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleCV))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Jane Doe", doc.Name)
	assert.Equal(t, "Senior Platform Engineer", doc.Title)
	assert.Equal(t, "assets/photo.jpg", doc.Photo)

	assert.Equal(t, "jane@example.com", doc.Contact.Email)
	assert.Equal(t, "+1 555 0100", doc.Contact.Phone)
	assert.Equal(t, "American", doc.Contact.Nationality)

	require.Len(t, doc.Links, 2)
	assert.Equal(t, "GitHub", doc.Links[0].Label)
	assert.Equal(t, "https://github.com/janedoe", doc.Links[0].URL)

	assert.Equal(t, []string{"Team mentoring", "Incident command"}, doc.Skills.Leadership)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, doc.Skills.Technical)
	require.Len(t, doc.Skills.Languages, 2)
	assert.Equal(t, Language{Name: "German", Level: "fluent"}, doc.Skills.Languages[1])

	assert.Contains(t, doc.Profile, "ten years of experience")

	require.Len(t, doc.Experience, 2)
	first := doc.Experience[0]
	assert.Equal(t, "Staff Engineer", first.Title)
	assert.Equal(t, "Example Corp", first.Org)
	assert.Equal(t, "2021", first.Start)
	assert.Equal(t, "Present", first.End)
	assert.Equal(t, "Platform team lead.", first.Description)
	assert.Equal(t, []string{"Built the deployment pipeline", "Cut release time by 80%"}, first.Bullets)

	stack, ok := first.Extra.Get("tech_stack")
	require.True(t, ok, "tech_stack should be captured as a free-form field")
	assert.True(t, stack.IsList)
	assert.Equal(t, []string{"Go", "AWS"}, stack.List)

	second := doc.Experience[1]
	assert.Empty(t, second.Description)
	assert.Nil(t, second.Bullets)
	assert.Nil(t, second.Extra)

	require.Len(t, doc.Education, 1)
	assert.Equal(t, "Graduated with honors", doc.Education[0].Details)

	require.Len(t, doc.Certifications, 1)
	assert.Equal(t, "CNCF", doc.Certifications[0].Org)

	require.Len(t, doc.Publications, 1)
	assert.Equal(t, 2023, doc.Publications[0].Year)
	assert.Equal(t, "SREcon", doc.Publications[0].Venue)

	require.Len(t, doc.Volunteering, 1)
	require.Len(t, doc.Testimonials, 1)
	assert.Equal(t, "Jane is the engineer you want in an incident.", doc.Testimonials[0].Quote)
	assert.Equal(t, "Available upon request", doc.References)

	require.Len(t, doc.Custom, 1)
	awards := doc.Custom[0]
	assert.Equal(t, "awards", awards.Name)
	require.Len(t, awards.Entries, 2)
	assert.True(t, awards.Entries[0].IsText)
	assert.Equal(t, "Employee of the Year 2022", awards.Entries[0].Text)
	assert.False(t, awards.Entries[1].IsText)
	name, ok := awards.Entries[1].Record.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Best Paper", name.Scalar)
	assert.Nil(t, awards.Fields, "field list stays empty when the first entry is plain text")

	assert.True(t, doc.HasSection("experience"))
	assert.True(t, doc.HasSection("awards"))
	assert.False(t, doc.HasSection("patents"))
}

// Entry order must survive parsing untouched. Documents are rendered in
// the order the author wrote them, even when dates look unsorted.
func TestParseKeepsSourceOrder(t *testing.T) {
	input := `
name: Jane Doe
title: Engineer
contact:
  email: jane@example.com
experience:
  - title: Oldest Job
    org: A
    start: 2001
    end: 2003
  - title: Newest Job
    org: B
    start: 2020
    end: Present
  - title: Middle Job
    org: C
    start: 2010
    end: 2015
patents:
  - One
hobbies:
  - Chess
`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "Oldest Job", doc.Experience[0].Title)
	assert.Equal(t, "Newest Job", doc.Experience[1].Title)
	assert.Equal(t, "Middle Job", doc.Experience[2].Title)

	require.Len(t, doc.Custom, 2)
	assert.Equal(t, "patents", doc.Custom[0].Name)
	assert.Equal(t, "hobbies", doc.Custom[1].Name)
}

func TestCheckProblems(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPaths []string
	}{
		{
			name:      "empty mapping misses all required keys",
			input:     `{}`,
			wantPaths: []string{"name", "title", "contact", "experience"},
		},
		{
			name: "null required value counts as missing",
			input: `
name: null
title: Engineer
contact:
  email: a@b.c
experience: []
`,
			wantPaths: []string{"name"},
		},
		{
			name: "name must be a scalar",
			input: `
name:
  - Jane
  - Doe
title: Engineer
contact:
  email: a@b.c
experience: []
`,
			wantPaths: []string{"name"},
		},
		{
			name: "experience must be a list",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: ten years
`,
			wantPaths: []string{"experience"},
		},
		{
			name: "experience entry missing org and start",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience:
  - title: Engineer
    end: Present
`,
			wantPaths: []string{"experience[0].org", "experience[0].start"},
		},
		{
			name: "link entries need label and url",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
links:
  - label: GitHub
`,
			wantPaths: []string{"links[0].url"},
		},
		{
			name: "language entries need a level",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
skills:
  languages:
    - name: English
`,
			wantPaths: []string{"skills.languages[0].level"},
		},
		{
			name: "publication year must be an integer",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
publications:
  - title: Paper
    year: twenty twenty
    venue: Conf
`,
			wantPaths: []string{"publications[0].year"},
		},
		{
			name: "testimonial needs a quote",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
testimonials:
  - name: John
    role: VP
    org: Corp
`,
			wantPaths: []string{"testimonials[0].quote"},
		},
		{
			name: "free-form experience field rejects nested mappings",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience:
  - title: Engineer
    org: Corp
    start: 2020
    end: Present
    props:
      nested: true
`,
			wantPaths: []string{"experience[0].props"},
		},
		{
			name: "custom section entries are strings or flat mappings",
			input: `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
awards:
  - - nested
    - list
`,
			wantPaths: []string{"awards[0]"},
		},
		{
			name: "several problems are reported together",
			input: `
name: Jane
contact:
  email: a@b.c
experience:
  - title: Engineer
publications:
  - title: Paper
    year: oops
`,
			wantPaths: []string{
				"title",
				"experience[0].org",
				"experience[0].start",
				"experience[0].end",
				"publications[0].year",
				"publications[0].venue",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Check([]byte(tt.input))
			require.NotEmpty(t, problems)

			paths := make([]string, 0, len(problems))
			for _, p := range problems {
				paths = append(paths, p.Path)
			}
			for _, want := range tt.wantPaths {
				assert.Contains(t, paths, want)
			}
		})
	}
}

func TestCheckMinimalValid(t *testing.T) {
	input := `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
`
	assert.Empty(t, Check([]byte(input)))
}

// Unknown scalar keys at the top level are kept, not rejected.
func TestParseTopLevelExtras(t *testing.T) {
	input := `
name: Jane
title: Engineer
contact:
  email: a@b.c
experience: []
motto: Move fast and fix things
keywords:
  - go
  - sre
`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	motto, ok := doc.Extra.Get("motto")
	require.True(t, ok)
	assert.Equal(t, "Move fast and fix things", motto.Scalar)

	// A list-valued unknown key becomes a custom section instead.
	require.Len(t, doc.Custom, 1)
	assert.Equal(t, "keywords", doc.Custom[0].Name)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeInvalidFormat, appErr.Code)
}

func TestParseSchemaErrorType(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.True(t, stderrors.As(err, &schemaErr))
	assert.Equal(t, errors.ErrCodeSchemaValidation, schemaErr.Code)
	assert.NotEmpty(t, schemaErr.Problems)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}
