// Package export holds the peer exporters that turn a CV document into
// Markdown, themed HTML, JSON, ATS plain text and JSON Resume. All of them
// consume the same section plan as the document renderer, so "preview" and
// "build" outputs never disagree on ordering.
package export

import (
	"fmt"
	"strings"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/jsonresume"
	"resumake/internal/render"
	"resumake/internal/theme"
)

// Options carries everything an exporter may need beyond the document.
// Theme and Assets only matter to the HTML exporter, Lang to the themed
// faces; the plain formats ignore what they do not use.
type Options struct {
	Theme  *theme.Theme
	Lang   string
	Assets render.AssetSource
}

// Exporter renders a document into one serialized format.
type Exporter interface {
	Export(doc *cv.Document, opts Options) ([]byte, []errors.Warning, error)
	ContentType() string
	Extension() string
}

// Registry manages the available exporters and resolves format aliases.
type Registry struct {
	exporters map[string]Exporter
	aliases   map[string]string
	names     []string
}

// NewRegistry creates a registry with all built-in exporters registered.
func NewRegistry() *Registry {
	r := &Registry{
		exporters: make(map[string]Exporter),
		aliases:   make(map[string]string),
	}
	r.Register("markdown", &markdownExporter{}, "md")
	r.Register("html", &htmlExporter{})
	r.Register("json", &jsonExporter{})
	r.Register("ats-text", &atsTextExporter{}, "txt")
	r.Register("jsonresume", &jsonResumeExporter{})
	return r
}

// Register adds an exporter under its canonical name plus any aliases.
func (r *Registry) Register(name string, e Exporter, aliases ...string) {
	if _, exists := r.exporters[name]; !exists {
		r.names = append(r.names, name)
	}
	r.exporters[name] = e
	for _, alias := range aliases {
		r.aliases[alias] = name
	}
}

// Formats returns the canonical format names in registration order.
func (r *Registry) Formats() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup resolves a format name, case-insensitively and with leading dots
// stripped so that ".md" works like "md".
func (r *Registry) Lookup(format string) (Exporter, error) {
	name := strings.TrimLeft(strings.ToLower(strings.TrimSpace(format)), ".")
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	if e, ok := r.exporters[name]; ok {
		return e, nil
	}
	return nil, errors.NewExportError(errors.ErrCodeExportFormat,
		fmt.Sprintf("unsupported export format %q (supported: %s)", format, strings.Join(r.Formats(), ", ")), nil).
		WithContext("format", format)
}

// Export runs the named exporter over doc. Unknown formats fail before any
// output is produced.
func (r *Registry) Export(doc *cv.Document, format string, opts Options) ([]byte, []errors.Warning, error) {
	e, err := r.Lookup(format)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, errors.NewExportError(errors.ErrCodeRenderFailed, "no document to export", nil)
	}
	return e.Export(doc, opts)
}

// DefaultRegistry is the shared registry used by the CLI and the server.
var DefaultRegistry = NewRegistry()

// exportHeadings are the short section headings used by the plain formats.
// The themed faces use the localized label tables instead.
var exportHeadings = map[string]string{
	"profile":        "Profile",
	"experience":     "Experience",
	"education":      "Education",
	"certifications": "Certifications",
	"publications":   "Publications",
	"volunteering":   "Volunteering",
	"testimonials":   "Testimonials",
	"references":     "References",
}

// joinTitleOrg renders "title — org", dropping the dash when either side
// is missing.
func joinTitleOrg(title, org string) string {
	switch {
	case title == "":
		return org
	case org == "":
		return title
	}
	return title + " — " + org
}

// joinComma renders "degree, institution" style pairs.
func joinComma(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ", " + b
}

// publicationMeta renders the venue/year tail of a publication line.
func publicationMeta(pub cv.Publication) string {
	switch {
	case pub.Venue != "" && pub.Year != 0:
		return fmt.Sprintf("%s, %d", pub.Venue, pub.Year)
	case pub.Year != 0:
		return fmt.Sprintf("%d", pub.Year)
	default:
		return pub.Venue
	}
}

// recordField reads a custom record value when the section's frozen field
// list allows it.
func recordField(sec *cv.CustomSection, rec cv.Fields, key string) string {
	if !sec.AllowsField(key) {
		return ""
	}
	v, ok := rec.Get(key)
	if !ok {
		return ""
	}
	return v.Display()
}

// customCoreFields get structural treatment in custom records; everything
// else becomes a labeled metadata line.
var customCoreFields = map[string]bool{
	"title":       true,
	"name":        true,
	"org":         true,
	"start":       true,
	"end":         true,
	"description": true,
}

// htmlExporter is the themed HTML page, shared with preview and serve.
type htmlExporter struct{}

func (htmlExporter) Export(doc *cv.Document, opts Options) ([]byte, []errors.Warning, error) {
	th := opts.Theme
	if th == nil {
		resolved, err := theme.Resolve("")
		if err != nil {
			return nil, nil, err
		}
		th = resolved
	}
	return render.BuildHTML(doc, th, render.Options{Lang: opts.Lang, Assets: opts.Assets})
}

func (htmlExporter) ContentType() string { return "text/html; charset=utf-8" }
func (htmlExporter) Extension() string   { return "html" }

// jsonExporter dumps the complete document structure, custom sections and
// free-form fields included. FromJSON reads it back losslessly.
type jsonExporter struct{}

func (jsonExporter) Export(doc *cv.Document, _ Options) ([]byte, []errors.Warning, error) {
	return cv.ToJSON(doc), nil, nil
}

func (jsonExporter) ContentType() string { return "application/json" }
func (jsonExporter) Extension() string   { return "json" }

// jsonResumeExporter maps the document onto the jsonresume.org schema.
type jsonResumeExporter struct{}

func (jsonResumeExporter) Export(doc *cv.Document, _ Options) ([]byte, []errors.Warning, error) {
	data, err := jsonresume.Marshal(doc)
	if err != nil {
		return nil, nil, errors.NewExportError(errors.ErrCodeRenderFailed,
			"json resume export failed", err)
	}
	return data, nil, nil
}

func (jsonResumeExporter) ContentType() string { return "application/json" }
func (jsonResumeExporter) Extension() string   { return "json" }
