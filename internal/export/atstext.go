package export

import (
	"strings"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/render"
	"resumake/internal/theme"
)

// atsTextExporter writes the document as bare plain text for automated
// screening systems: uppercase section headings, nothing indented, no
// bullet beyond a single leading dash, and strictly ASCII output. Themes
// are ignored; there is no layout to style.
type atsTextExporter struct{}

func (atsTextExporter) ContentType() string { return "text/plain; charset=utf-8" }
func (atsTextExporter) Extension() string   { return "txt" }

func (atsTextExporter) Export(doc *cv.Document, _ Options) ([]byte, []errors.Warning, error) {
	w := &atsWriter{}
	w.line(doc.Name)
	if doc.Title != "" {
		w.line(doc.Title)
	}

	w.contact(doc.Contact)
	w.links(doc.Links)

	wroteSkills := false
	skills := func() {
		if wroteSkills || doc.Skills.IsZero() {
			return
		}
		wroteSkills = true
		w.skills(doc.Skills)
	}

	for _, sec := range render.Plan(doc, theme.LayoutTwoColumn) {
		if sec.Key != "profile" {
			skills()
		}
		switch {
		case sec.Custom != nil:
			w.custom(sec.Custom)
		case sec.Key == "profile":
			w.section(exportHeadings["profile"])
			w.line(strings.TrimSpace(doc.Profile))
			skills()
		case sec.Key == "experience":
			w.experience(doc.Experience)
		case sec.Key == "education":
			w.education(doc.Education)
		case sec.Key == "certifications":
			w.certifications(doc.Certifications)
		case sec.Key == "publications":
			w.publications(doc.Publications)
		case sec.Key == "volunteering":
			w.volunteering(doc.Volunteering)
		case sec.Key == "testimonials":
			w.testimonials(doc.Testimonials)
		case sec.Key == "references":
			w.section(exportHeadings["references"])
			w.line(doc.References)
		}
	}
	skills()

	return []byte(w.String()), nil, nil
}

type atsWriter struct {
	lines []string
}

func (w *atsWriter) line(s string) {
	w.lines = append(w.lines, s)
}

// section starts an uppercase heading, separated from what came before by
// one blank line. Headings are folded before uppercasing so that "ä"
// becomes "AE", not "Ae".
func (w *atsWriter) section(heading string) {
	if len(w.lines) > 0 {
		w.line("")
	}
	w.line(strings.ToUpper(asciiFold(heading)))
}

// gap separates entries inside one section.
func (w *atsWriter) gap(i int) {
	if i > 0 {
		w.line("")
	}
}

func (w *atsWriter) String() string {
	return asciiFold(strings.Join(w.lines, "\n")) + "\n"
}

func (w *atsWriter) labeled(label, value string) {
	if value != "" {
		w.line(label + ": " + value)
	}
}

func (w *atsWriter) dates(start, end string) {
	if r := render.FormatRange(start, end); r != "" {
		w.line(r)
	}
}

func (w *atsWriter) extras(extra cv.Fields) {
	for _, f := range extra {
		if !f.Value.IsEmpty() {
			w.labeled(cv.TitleCase(f.Key), f.Value.Display())
		}
	}
}

func (w *atsWriter) contact(c cv.Contact) {
	if c.IsZero() {
		return
	}
	w.section("Contact")
	w.labeled("Email", c.Email)
	w.labeled("Phone", c.Phone)
	w.labeled("Address", c.Address)
	w.labeled("Nationality", c.Nationality)
}

func (w *atsWriter) links(links []cv.Link) {
	if len(links) == 0 {
		return
	}
	w.section("Links")
	for _, lk := range links {
		w.labeled(lk.Label, lk.URL)
	}
}

func (w *atsWriter) skills(s cv.Skills) {
	w.section("Skills")
	if len(s.Leadership) > 0 {
		w.labeled("Leadership", strings.Join(s.Leadership, ", "))
	}
	if len(s.Technical) > 0 {
		w.labeled("Technical", strings.Join(s.Technical, ", "))
	}
	if len(s.Languages) > 0 {
		langs := make([]string, 0, len(s.Languages))
		for _, lg := range s.Languages {
			langs = append(langs, lg.Name+" ("+render.LevelLabel("en", lg.Level)+")")
		}
		w.labeled("Languages", strings.Join(langs, ", "))
	}
}

func (w *atsWriter) experience(entries []cv.Experience) {
	w.section(exportHeadings["experience"])
	for i, exp := range entries {
		w.gap(i)
		w.line(joinTitleOrg(exp.Title, exp.Org))
		w.dates(exp.Start, exp.End)
		if exp.Description != "" {
			w.line(exp.Description)
		}
		for _, b := range exp.Bullets {
			w.line("- " + b)
		}
		w.extras(exp.Extra)
	}
}

func (w *atsWriter) education(entries []cv.Education) {
	w.section(exportHeadings["education"])
	for i, edu := range entries {
		w.gap(i)
		w.line(joinComma(edu.Degree, edu.Institution))
		w.dates(edu.Start, edu.End)
		if edu.Description != "" {
			w.line(edu.Description)
		}
		if edu.Details != "" {
			w.line(edu.Details)
		}
	}
}

func (w *atsWriter) certifications(entries []cv.Certification) {
	w.section(exportHeadings["certifications"])
	for _, cert := range entries {
		item := "- " + joinComma(cert.Name, cert.Org)
		if r := render.FormatRange(cert.Start, cert.End); r != "" {
			item += " (" + r + ")"
		}
		w.line(item)
		if cert.Description != "" {
			w.line(cert.Description)
		}
	}
}

func (w *atsWriter) publications(entries []cv.Publication) {
	w.section(exportHeadings["publications"])
	for _, pub := range entries {
		item := "- " + pub.Title
		if meta := publicationMeta(pub); meta != "" {
			item += " — " + meta
		}
		w.line(item)
	}
}

func (w *atsWriter) volunteering(entries []cv.Volunteering) {
	w.section(exportHeadings["volunteering"])
	for i, vol := range entries {
		w.gap(i)
		w.line(joinTitleOrg(vol.Title, vol.Org))
		w.dates(vol.Start, vol.End)
		if vol.Description != "" {
			w.line(vol.Description)
		}
	}
}

func (w *atsWriter) testimonials(entries []cv.Testimonial) {
	w.section(exportHeadings["testimonials"])
	for _, t := range entries {
		item := `"` + t.Quote + `"`
		var who []string
		for _, part := range []string{t.Name, t.Role, t.Org} {
			if part != "" {
				who = append(who, part)
			}
		}
		if len(who) > 0 {
			item += " — " + strings.Join(who, ", ")
		}
		w.line(item)
	}
}

func (w *atsWriter) custom(sec *cv.CustomSection) {
	w.section(cv.TitleCase(sec.Name))
	first := true
	for _, e := range sec.Entries {
		if e.IsText {
			w.line("- " + e.Text)
			first = false
			continue
		}
		if !first {
			w.line("")
		}
		first = false
		title := recordField(sec, e.Record, "title")
		if title == "" {
			title = recordField(sec, e.Record, "name")
		}
		if org := recordField(sec, e.Record, "org"); title != "" && org != "" {
			title += ", " + org
		}
		if title != "" {
			w.line(title)
		}
		w.dates(recordField(sec, e.Record, "start"), recordField(sec, e.Record, "end"))
		if d := recordField(sec, e.Record, "description"); d != "" {
			w.line(d)
		}
		for _, f := range e.Record {
			if customCoreFields[f.Key] || f.Value.IsEmpty() || !sec.AllowsField(f.Key) {
				continue
			}
			w.labeled(cv.TitleCase(f.Key), f.Value.Display())
		}
	}
}
