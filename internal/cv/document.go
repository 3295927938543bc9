// Package cv holds the validated in-memory CV data model and its
// YAML/JSON round-trip machinery. Section entries keep their source
// order; renderers never sort them.
package cv

import (
	"regexp"
	"strings"
)

// Document is the root CV entity. Nil slices mean the section was absent
// from the source; empty non-nil slices mean it was present but empty.
// Both render as absent.
type Document struct {
	Name    string
	Title   string
	Photo   string
	Contact Contact
	Links   []Link
	Skills  Skills
	Profile string

	Experience     []Experience
	Education      []Education
	Certifications []Certification
	Publications   []Publication
	Volunteering   []Volunteering
	Testimonials   []Testimonial
	References     string

	// Custom holds every unrecognized top-level list-valued key, in
	// source order. Extra holds the remaining unrecognized top-level
	// values; they are preserved for round-trips but never rendered.
	Custom []CustomSection
	Extra  Fields
}

// Contact carries the identity block fields. All optional.
type Contact struct {
	Address     string `yaml:"address,omitempty" json:"address,omitempty"`
	Phone       string `yaml:"phone,omitempty" json:"phone,omitempty"`
	Email       string `yaml:"email,omitempty" json:"email,omitempty"`
	Nationality string `yaml:"nationality,omitempty" json:"nationality,omitempty"`
}

// IsZero reports whether no contact field is set.
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// Link is a labeled URL. URLs without a scheme render as plain text.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Language pairs a language name with a proficiency level. Recognized
// levels are native, fluent, professional and basic; anything else is
// rendered as written.
type Language struct {
	Name  string `yaml:"name" json:"name"`
	Level string `yaml:"level" json:"level"`
}

// Skills groups the sidebar skill lists.
type Skills struct {
	Leadership []string   `yaml:"leadership,omitempty" json:"leadership,omitempty"`
	Technical  []string   `yaml:"technical,omitempty" json:"technical,omitempty"`
	Languages  []Language `yaml:"languages,omitempty" json:"languages,omitempty"`
}

// IsZero reports whether no skill list is set.
func (s Skills) IsZero() bool {
	return s.Leadership == nil && s.Technical == nil && s.Languages == nil
}

// Experience is one work history entry. Extra keeps any fields beyond the
// known set (tech_stack and friends) in source order for labeled rendering.
type Experience struct {
	Title       string
	Org         string
	Start       string
	End         string
	Description string
	Bullets     []string
	Extra       Fields
}

// Education is one schooling entry.
type Education struct {
	Degree      string
	Institution string
	Start       string
	End         string
	Description string
	Details     string
}

// Certification is one certificate entry.
type Certification struct {
	Name        string
	Org         string
	Start       string
	End         string
	Description string
}

// Publication is one published work.
type Publication struct {
	Title string
	Year  int
	Venue string
}

// Volunteering is one volunteer engagement.
type Volunteering struct {
	Title       string
	Org         string
	Start       string
	End         string
	Description string
}

// Testimonial is a quoted endorsement.
type Testimonial struct {
	Name  string
	Role  string
	Org   string
	Quote string
}

// CustomSection is an arbitrary user-defined section: any top-level
// list-valued key whose name is not a known section. The display field
// list is frozen from the first entry at load time, so renderers never
// re-inspect entry shapes.
type CustomSection struct {
	Name    string
	Fields  []string
	Entries []CustomEntry
}

// IsEmpty reports whether the section has no entries.
func (s CustomSection) IsEmpty() bool {
	return len(s.Entries) == 0
}

// AllowsField reports whether key belongs to the section's frozen field
// list. Renderers skip record fields outside it.
func (s CustomSection) AllowsField(key string) bool {
	for _, f := range s.Fields {
		if f == key {
			return true
		}
	}
	return false
}

// CustomEntry is either a plain text line or a flat record.
type CustomEntry struct {
	Text   string
	Record Fields
	IsText bool
}

// knownKeys are the top-level keys claimed by the schema. Any other
// list-valued key is a custom section.
var knownKeys = map[string]bool{
	"name":           true,
	"title":          true,
	"photo":          true,
	"contact":        true,
	"links":          true,
	"skills":         true,
	"profile":        true,
	"experience":     true,
	"education":      true,
	"certifications": true,
	"publications":   true,
	"volunteering":   true,
	"testimonials":   true,
	"references":     true,
}

// KnownKey reports whether key belongs to the fixed schema.
func KnownKey(key string) bool {
	return knownKeys[key]
}

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	slugCollapse = regexp.MustCompile(`\s+`)
)

// Slug converts a name like "Jane Doe, PhD" into "Jane_Doe_PhD" for
// output file naming.
func (d *Document) Slug() string {
	s := slugStrip.ReplaceAllString(d.Name, "")
	s = slugCollapse.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// HasSection reports whether the named known section has content. Custom
// sections are checked through d.Custom directly.
func (d *Document) HasSection(name string) bool {
	switch name {
	case "profile":
		return d.Profile != ""
	case "experience":
		return len(d.Experience) > 0
	case "education":
		return len(d.Education) > 0
	case "certifications":
		return len(d.Certifications) > 0
	case "publications":
		return len(d.Publications) > 0
	case "volunteering":
		return len(d.Volunteering) > 0
	case "testimonials":
		return len(d.Testimonials) > 0
	case "references":
		return d.References != ""
	default:
		return false
	}
}
