// Package jsonresume maps CV documents onto the jsonresume.org schema and
// back. The mapping is documented-lossy: testimonials, custom sections,
// per-entry extra fields and education details have no counterpart in that
// schema and are dropped on export. Import validates input against the
// embedded schema before any mapping runs.
package jsonresume

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"resumake/internal/cv"
	"resumake/internal/errors"
)

//go:embed schema.json
var schemaJSON []byte

// Resume is the jsonresume.org document shape, limited to the sections
// this tool reads and writes. Field order follows the exported key order.
type Resume struct {
	Basics       Basics        `json:"basics"`
	Meta         Meta          `json:"meta"`
	Work         []Work        `json:"work,omitempty"`
	Education    []Education   `json:"education,omitempty"`
	Skills       []SkillGroup  `json:"skills,omitempty"`
	Languages    []Language    `json:"languages,omitempty"`
	Volunteer    []Volunteer   `json:"volunteer,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Publications []Publication `json:"publications,omitempty"`
	References   []Reference   `json:"references,omitempty"`
}

type Basics struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Summary  string    `json:"summary,omitempty"`
	Image    string    `json:"image,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

type Location struct {
	Address     string `json:"address,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

type Profile struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

type Meta struct {
	Generator string `json:"generator,omitempty"`
}

type Work struct {
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	StudyType   string `json:"studyType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Area        string `json:"area,omitempty"`
}

type SkillGroup struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords,omitempty"`
}

type Language struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

type Volunteer struct {
	Organization string `json:"organization"`
	Position     string `json:"position"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Summary      string `json:"summary,omitempty"`
}

type Certificate struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Issuer string `json:"issuer,omitempty"`
}

type Publication struct {
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	ReleaseDate string `json:"releaseDate"`
}

type Reference struct {
	Name      string `json:"name,omitempty"`
	Reference string `json:"reference"`
}

const generator = "resumake"

// FromDocument maps a CV document to its JSON Resume representation.
func FromDocument(d *cv.Document) *Resume {
	r := &Resume{
		Basics: Basics{
			Name:  d.Name,
			Label: d.Title,
			Image: d.Photo,
			Email: d.Contact.Email,
			Phone: d.Contact.Phone,
		},
		Meta: Meta{Generator: generator},
	}
	if d.Profile != "" {
		r.Basics.Summary = strings.TrimSpace(d.Profile)
	}
	if d.Contact.Address != "" || d.Contact.Nationality != "" {
		r.Basics.Location = &Location{
			Address:     d.Contact.Address,
			CountryCode: d.Contact.Nationality,
		}
	}
	for _, lk := range d.Links {
		r.Basics.Profiles = append(r.Basics.Profiles, Profile{Network: lk.Label, URL: lk.URL})
	}

	for _, exp := range d.Experience {
		r.Work = append(r.Work, Work{
			Name:       exp.Org,
			Position:   exp.Title,
			StartDate:  exp.Start,
			EndDate:    exp.End,
			Summary:    exp.Description,
			Highlights: exp.Bullets,
		})
	}
	for _, edu := range d.Education {
		r.Education = append(r.Education, Education{
			Institution: edu.Institution,
			StudyType:   edu.Degree,
			StartDate:   edu.Start,
			EndDate:     edu.End,
			Area:        edu.Description,
		})
	}

	if len(d.Skills.Leadership) > 0 {
		r.Skills = append(r.Skills, SkillGroup{Name: "Leadership", Keywords: d.Skills.Leadership})
	}
	if len(d.Skills.Technical) > 0 {
		r.Skills = append(r.Skills, SkillGroup{Name: "Technical", Keywords: d.Skills.Technical})
	}
	for _, lg := range d.Skills.Languages {
		r.Languages = append(r.Languages, Language{Language: lg.Name, Fluency: lg.Level})
	}

	for _, vol := range d.Volunteering {
		r.Volunteer = append(r.Volunteer, Volunteer{
			Organization: vol.Org,
			Position:     vol.Title,
			StartDate:    vol.Start,
			EndDate:      vol.End,
			Summary:      vol.Description,
		})
	}
	for _, cert := range d.Certifications {
		r.Certificates = append(r.Certificates, Certificate{
			Name:   cert.Name,
			Date:   cert.Start,
			Issuer: cert.Org,
		})
	}
	for _, pub := range d.Publications {
		r.Publications = append(r.Publications, Publication{
			Name:        pub.Title,
			Publisher:   pub.Venue,
			ReleaseDate: releaseDate(pub.Year),
		})
	}
	if d.References != "" {
		r.References = []Reference{{Reference: d.References}}
	}
	return r
}

// ToDocument maps a JSON Resume back to a CV document. Skill groups are
// matched by name: "leadership" fills leadership, "technical" or
// "programming" fills technical, anything else is folded into technical.
func ToDocument(r *Resume) *cv.Document {
	d := &cv.Document{
		Name:    r.Basics.Name,
		Title:   r.Basics.Label,
		Photo:   r.Basics.Image,
		Profile: r.Basics.Summary,
	}
	d.Contact.Email = r.Basics.Email
	d.Contact.Phone = r.Basics.Phone
	if loc := r.Basics.Location; loc != nil {
		d.Contact.Address = loc.Address
		d.Contact.Nationality = loc.CountryCode
	}
	for _, p := range r.Basics.Profiles {
		d.Links = append(d.Links, cv.Link{Label: p.Network, URL: p.URL})
	}

	for _, w := range r.Work {
		d.Experience = append(d.Experience, cv.Experience{
			Title:       w.Position,
			Org:         w.Name,
			Start:       w.StartDate,
			End:         w.EndDate,
			Description: w.Summary,
			Bullets:     w.Highlights,
		})
	}
	for _, e := range r.Education {
		d.Education = append(d.Education, cv.Education{
			Degree:      e.StudyType,
			Institution: e.Institution,
			Start:       e.StartDate,
			End:         e.EndDate,
			Description: e.Area,
		})
	}

	for _, s := range r.Skills {
		name := strings.ToLower(s.Name)
		switch {
		case strings.Contains(name, "leadership"):
			d.Skills.Leadership = s.Keywords
		case strings.Contains(name, "technical"), strings.Contains(name, "programming"):
			d.Skills.Technical = s.Keywords
		default:
			d.Skills.Technical = append(d.Skills.Technical, s.Keywords...)
		}
	}
	for _, lg := range r.Languages {
		d.Skills.Languages = append(d.Skills.Languages, cv.Language{Name: lg.Language, Level: lg.Fluency})
	}

	for _, v := range r.Volunteer {
		d.Volunteering = append(d.Volunteering, cv.Volunteering{
			Title:       v.Position,
			Org:         v.Organization,
			Start:       v.StartDate,
			End:         v.EndDate,
			Description: v.Summary,
		})
	}
	for _, c := range r.Certificates {
		d.Certifications = append(d.Certifications, cv.Certification{
			Name:  c.Name,
			Org:   c.Issuer,
			Start: c.Date,
			End:   c.Date,
		})
	}
	for _, p := range r.Publications {
		d.Publications = append(d.Publications, cv.Publication{
			Title: p.Name,
			Year:  releaseYear(p.ReleaseDate),
			Venue: p.Publisher,
		})
	}
	if len(r.References) > 0 && r.References[0].Reference != "" {
		d.References = r.References[0].Reference
	}
	return d
}

// releaseDate renders a publication year as the schema's releaseDate value.
// Year 0 means the year was never set and exports as an empty string.
func releaseDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// releaseYear recovers the publication year from a releaseDate value, which
// may be a full ISO date or a bare year. Unparseable input maps to 0.
func releaseYear(date string) int {
	if len(date) > 4 {
		date = date[:4]
	}
	year, err := strconv.Atoi(date)
	if err != nil {
		return 0
	}
	return year
}

// Marshal exports the document as indented JSON Resume with a trailing
// newline.
func Marshal(d *cv.Document) ([]byte, error) {
	data, err := json.MarshalIndent(FromDocument(d), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Parse validates data against the embedded schema and maps it to a CV
// document. Schema violations are returned together as *errors.SchemaError.
func Parse(data []byte) (*cv.Document, error) {
	if problems := Validate(data); len(problems) > 0 {
		return nil, &errors.SchemaError{
			AppError: errors.NewValidationError(errors.ErrCodeSchemaValidation,
				fmt.Sprintf("json resume document failed validation with %d problem(s)", len(problems)), nil),
			Problems: problems,
		}
	}
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"json resume document is not valid JSON", err)
	}
	return ToDocument(&r), nil
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks data against the embedded JSON Resume schema and returns
// the complete list of problems. An empty list means the document is valid.
func Validate(data []byte) []errors.FieldError {
	if !json.Valid(data) {
		return []errors.FieldError{{Path: "document", Message: "not valid JSON"}}
	}
	sch, err := compiledSchema()
	if err != nil {
		return []errors.FieldError{{Path: "document", Message: fmt.Sprintf("schema unavailable: %v", err)}}
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return []errors.FieldError{{Path: "document", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]errors.FieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, errors.FieldError{Path: e.Field(), Message: e.Description()})
	}
	return problems
}
