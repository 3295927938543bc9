package export

import (
	"fmt"
	"strings"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/render"
	"resumake/internal/theme"
)

// markdownExporter writes the document as plain Markdown. Sections follow
// the renderer's plan, so a theme with the academic layout promotes
// publications here exactly as it does in the styled faces.
type markdownExporter struct{}

func (markdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
func (markdownExporter) Extension() string   { return "md" }

func (markdownExporter) Export(doc *cv.Document, opts Options) ([]byte, []errors.Warning, error) {
	layout := theme.LayoutTwoColumn
	if opts.Theme != nil {
		layout = opts.Theme.Layout.Type
	}

	w := &mdWriter{}
	w.header(doc)

	wroteSkills := false
	skills := func() {
		if wroteSkills || doc.Skills.IsZero() {
			return
		}
		wroteSkills = true
		w.skills(doc.Skills)
	}

	for _, sec := range render.Plan(doc, layout) {
		if sec.Key != "profile" {
			skills()
		}
		switch {
		case sec.Custom != nil:
			w.custom(sec.Custom)
		case sec.Key == "profile":
			w.line("## " + exportHeadings["profile"] + "\n")
			w.line(strings.TrimSpace(doc.Profile) + "\n")
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
			w.line("## " + exportHeadings["references"] + "\n")
			w.line(doc.References + "\n")
		}
	}
	skills()

	return []byte(w.String()), nil, nil
}

// mdWriter accumulates markdown lines; the final document joins them with
// single newlines, so a line ending in "\n" produces a blank separator.
type mdWriter struct {
	lines []string
}

func (w *mdWriter) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *mdWriter) String() string {
	return strings.Join(w.lines, "\n")
}

func (w *mdWriter) header(doc *cv.Document) {
	w.line("# " + doc.Name)
	if doc.Title != "" {
		w.line("**" + doc.Title + "**\n")
	}

	var contact []string
	for _, part := range []string{doc.Contact.Email, doc.Contact.Phone, doc.Contact.Address} {
		if part != "" {
			contact = append(contact, part)
		}
	}
	if len(contact) > 0 {
		w.line(strings.Join(contact, " | ") + "\n")
	}

	if len(doc.Links) > 0 {
		links := make([]string, 0, len(doc.Links))
		for _, lk := range doc.Links {
			links = append(links, fmt.Sprintf("[%s](%s)", lk.Label, lk.URL))
		}
		w.line(strings.Join(links, " | ") + "\n")
	}
}

func (w *mdWriter) skills(s cv.Skills) {
	w.line("## Skills\n")
	if len(s.Leadership) > 0 {
		w.line("**Leadership:** " + strings.Join(s.Leadership, ", ") + "\n")
	}
	if len(s.Technical) > 0 {
		w.line("**Technical:** " + strings.Join(s.Technical, ", ") + "\n")
	}
	if len(s.Languages) > 0 {
		langs := make([]string, 0, len(s.Languages))
		for _, lg := range s.Languages {
			langs = append(langs, fmt.Sprintf("%s (%s)", lg.Name, lg.Level))
		}
		w.line("**Languages:** " + strings.Join(langs, ", ") + "\n")
	}
}

func (w *mdWriter) dates(start, end string) {
	if r := render.FormatRange(start, end); r != "" {
		w.line("*" + r + "*\n")
	}
}

func (w *mdWriter) experience(entries []cv.Experience) {
	w.line("## " + exportHeadings["experience"] + "\n")
	for _, exp := range entries {
		w.line("### " + joinTitleOrg(exp.Title, exp.Org))
		w.dates(exp.Start, exp.End)
		if exp.Description != "" {
			w.line(exp.Description + "\n")
		}
		for _, b := range exp.Bullets {
			w.line("- " + b)
		}
		for _, f := range exp.Extra {
			if !f.Value.IsEmpty() {
				w.line(fmt.Sprintf("**%s:** %s", cv.TitleCase(f.Key), f.Value.Display()))
			}
		}
		w.line("")
	}
}

func (w *mdWriter) education(entries []cv.Education) {
	w.line("## " + exportHeadings["education"] + "\n")
	for _, edu := range entries {
		w.line("### " + joinComma(edu.Degree, edu.Institution))
		w.dates(edu.Start, edu.End)
		if edu.Description != "" {
			w.line(edu.Description + "\n")
		}
		if edu.Details != "" {
			w.line(edu.Details + "\n")
		}
	}
}

func (w *mdWriter) certifications(entries []cv.Certification) {
	w.line("## " + exportHeadings["certifications"] + "\n")
	for _, cert := range entries {
		item := "- **" + cert.Name + "**"
		if cert.Org != "" {
			item += ", " + cert.Org
		}
		if r := render.FormatRange(cert.Start, cert.End); r != "" {
			item += " (" + r + ")"
		}
		w.line(item)
	}
	w.line("")
}

func (w *mdWriter) publications(entries []cv.Publication) {
	w.line("## " + exportHeadings["publications"] + "\n")
	for _, pub := range entries {
		item := "- **" + pub.Title + "**"
		if meta := publicationMeta(pub); meta != "" {
			item += " — " + meta
		}
		w.line(item)
	}
	w.line("")
}

func (w *mdWriter) volunteering(entries []cv.Volunteering) {
	w.line("## " + exportHeadings["volunteering"] + "\n")
	for _, vol := range entries {
		w.line("### " + joinTitleOrg(vol.Title, vol.Org))
		w.dates(vol.Start, vol.End)
		if vol.Description != "" {
			w.line(vol.Description + "\n")
		}
	}
}

func (w *mdWriter) testimonials(entries []cv.Testimonial) {
	w.line("## " + exportHeadings["testimonials"] + "\n")
	for _, t := range entries {
		w.line(`> "` + t.Quote + `"`)
		var who []string
		for _, part := range []string{t.Name, t.Role, t.Org} {
			if part != "" {
				who = append(who, part)
			}
		}
		if len(who) > 0 {
			w.line("> — " + strings.Join(who, ", "))
		}
		w.line("")
	}
}

func (w *mdWriter) custom(sec *cv.CustomSection) {
	w.line("## " + cv.TitleCase(sec.Name) + "\n")
	wroteText := false
	for _, e := range sec.Entries {
		if e.IsText {
			w.line("- " + e.Text)
			wroteText = true
			continue
		}
		if wroteText {
			w.line("")
			wroteText = false
		}
		w.customRecord(sec, e.Record)
	}
	if wroteText {
		w.line("")
	}
}

func (w *mdWriter) customRecord(sec *cv.CustomSection, rec cv.Fields) {
	title := recordField(sec, rec, "title")
	if title == "" {
		title = recordField(sec, rec, "name")
	}
	if org := recordField(sec, rec, "org"); title != "" && org != "" {
		title += ", " + org
	}
	if title != "" {
		w.line("### " + title)
	}
	w.dates(recordField(sec, rec, "start"), recordField(sec, rec, "end"))
	if d := recordField(sec, rec, "description"); d != "" {
		w.line(d + "\n")
	}
	for _, f := range rec {
		if customCoreFields[f.Key] || f.Value.IsEmpty() || !sec.AllowsField(f.Key) {
			continue
		}
		w.line(fmt.Sprintf("**%s:** %s", cv.TitleCase(f.Key), f.Value.Display()))
	}
	w.line("")
}
