package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/theme"
)

// BuildHTML renders the document as a print-optimized HTML page carrying
// the same colors, fonts and section order as the word-processor output.
func BuildHTML(doc *cv.Document, th *theme.Theme, opts Options) ([]byte, []errors.Warning, error) {
	if doc == nil || th == nil {
		return nil, nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "render needs a document and a resolved theme", nil)
	}
	layout := th.Layout.Type
	if !layout.Valid() {
		return nil, nil, errors.NewRenderError(errors.ErrCodeUnsupportedLayout,
			fmt.Sprintf("unsupported layout type %q", layout), nil)
	}

	lang := opts.language()
	b := &htmlBuilder{doc: doc, th: th, labels: Labels(lang), lang: lang, layout: layout}

	var warnings []errors.Warning
	css, err := buildCSS(th, layout)
	if err != nil {
		return nil, nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "could not build stylesheet", err)
	}

	var body string
	if layout == theme.LayoutSingleColumn {
		body = fmt.Sprintf("<div style=\"max-width:18cm;margin:0 auto\">\n%s\n%s\n</div>",
			b.inlineHeader(), b.mainColumn())
	} else {
		var photoURL string
		if doc.Photo != "" && layout != theme.LayoutCompact {
			url, err := photoDataURL(doc.Photo, opts.Assets)
			if err != nil {
				warnings = append(warnings, errors.NewAssetWarning(doc.Photo, err))
			} else {
				photoURL = url
			}
		}
		body = fmt.Sprintf("<div class=\"cv-container\">\n<div class=\"sidebar\">\n%s\n</div>\n<div class=\"main\">\n%s\n</div>\n</div>",
			b.sidebar(photoURL), b.mainColumn())
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s — CV</title>
<style>%s</style>
</head>
<body>
%s
</body>
</html>
`, escHTML(lang), escHTML(doc.Name), css, body)

	return []byte(page), warnings, nil
}

func escHTML(s string) string { return html.EscapeString(s) }

// photoDataURL reads the referenced image and embeds it as a data URL.
// The MIME type comes from the file suffix, defaulting to PNG.
func photoDataURL(ref string, source AssetSource) (string, error) {
	if source == nil {
		return "", fmt.Errorf("no asset source configured")
	}
	rc, err := source.Open(ref)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	mime := "png"
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(ref), ".")) {
	case "jpg", "jpeg":
		mime = "jpeg"
	case "gif":
		mime = "gif"
	case "svg":
		mime = "svg+xml"
	}
	return "data:image/" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

type cssParams struct {
	Colors         theme.Colors
	Fonts          theme.Fonts
	Sizes          theme.Sizes
	Layout         theme.Layout
	SidebarCM      float64
	SidebarPadding string
}

var cssTemplate = template.Must(template.New("css").Parse(`
    @page {
        size: A4;
        margin: {{.Layout.PageTopMarginCM}}cm {{.Layout.PageRightMarginCM}}cm
                {{.Layout.PageBottomMarginCM}}cm {{.Layout.PageLeftMarginCM}}cm;
    }
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
        font-family: {{.Fonts.Body}}, Calibri, Arial, sans-serif;
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.TextBody}};
        line-height: 1.4;
        -webkit-print-color-adjust: exact;
        print-color-adjust: exact;
    }
    .cv-container {
        display: flex;
        min-height: 100vh;
    }
    .sidebar {
        width: {{.SidebarCM}}cm;
        min-width: {{.SidebarCM}}cm;
        background-color: #{{.Colors.Primary}};
        color: #{{.Colors.TextLight}};
        padding: {{.SidebarPadding}};
        text-align: center;
    }
    .main {
        flex: 1;
        padding: 0.6cm 0.6cm 1cm 0.8cm;
    }
    .photo { width: 2.8cm; height: 2.8cm; border-radius: 50%; object-fit: cover; margin-bottom: 0.4cm; }
    .sidebar h1 {
        font-family: {{.Fonts.Heading}}, Arial Narrow, sans-serif;
        font-size: {{.Sizes.NamePT}}pt;
        color: #{{.Colors.TextLight}};
        margin-bottom: 0.2cm;
        font-weight: bold;
    }
    .sidebar .title {
        font-size: {{.Sizes.SmallPT}}pt;
        color: #{{.Colors.TextMuted}};
        font-style: italic;
        margin-bottom: 0.6cm;
    }
    .sidebar-section-title {
        font-family: {{.Fonts.Heading}}, Arial Narrow, sans-serif;
        font-size: {{.Sizes.SubheadingPT}}pt;
        color: #{{.Colors.TextLight}};
        font-weight: bold;
        margin-top: 0.4cm;
        margin-bottom: 0.2cm;
    }
    .sidebar-label {
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.TextMuted}};
        font-weight: bold;
        margin-bottom: 0.1cm;
    }
    .sidebar-text {
        font-size: {{.Sizes.SmallPT}}pt;
        color: #{{.Colors.TextLight}};
        margin-bottom: 0.1cm;
    }
    .sidebar a {
        color: #{{.Colors.Accent}};
        text-decoration: underline;
        font-size: {{.Sizes.SmallPT}}pt;
    }
    .section-heading {
        font-family: {{.Fonts.Heading}}, Arial Narrow, sans-serif;
        font-size: {{.Sizes.HeadingPT}}pt;
        color: #{{.Colors.Primary}};
        font-weight: bold;
        margin-top: 0.5cm;
        margin-bottom: 0.1cm;
        padding-bottom: 0.1cm;
        border-bottom: 1.5px solid #{{.Colors.Accent}};
    }
    .entry-title {
        font-family: {{.Fonts.Heading}}, Arial Narrow, sans-serif;
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.Primary}};
        font-weight: bold;
        margin-top: 0.3cm;
    }
    .entry-dates {
        font-size: {{.Sizes.SmallPT}}pt;
        color: #{{.Colors.TextMuted}};
        margin-bottom: 0.1cm;
    }
    .entry-desc {
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.TextMuted}};
        font-style: italic;
        margin-bottom: 0.1cm;
    }
    .body-text {
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.TextBody}};
        margin-bottom: 0.1cm;
    }
    ul.bullets {
        padding-left: 0.5cm;
        margin: 0.05cm 0;
    }
    ul.bullets li {
        font-size: {{.Sizes.SmallPT}}pt;
        color: #{{.Colors.TextBody}};
        margin-bottom: 0.05cm;
    }
    .meta-line {
        font-size: {{.Sizes.SmallPT}}pt;
        margin-bottom: 0.02cm;
    }
    .meta-label {
        color: #{{.Colors.Accent}};
        font-weight: bold;
    }
    .meta-value {
        color: #{{.Colors.TextMuted}};
    }
    .testimonial-quote {
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.TextMuted}};
        font-style: italic;
        margin-bottom: 0.1cm;
    }
    .testimonial-author {
        font-size: {{.Sizes.BodyPT}}pt;
        color: #{{.Colors.Primary}};
        font-weight: bold;
    }
    .testimonial-role {
        font-size: {{.Sizes.SmallPT}}pt;
        color: #{{.Colors.TextMuted}};
    }
    @media print {
        .cv-container { min-height: auto; }
        .entry-title { page-break-inside: avoid; }
    }
`))

func buildCSS(th *theme.Theme, layout theme.LayoutType) (string, error) {
	params := cssParams{
		Colors:         th.Colors,
		Fonts:          th.Fonts,
		Sizes:          th.Sizes,
		Layout:         th.Layout,
		SidebarCM:      th.Layout.SidebarWidthCM,
		SidebarPadding: "0.8cm 0.5cm",
	}
	if layout == theme.LayoutCompact {
		params.SidebarCM = th.Layout.SidebarWidthCM * (1 - compactShave)
		params.SidebarPadding = "0.6cm 0.4cm"
	}
	var sb strings.Builder
	if err := cssTemplate.Execute(&sb, params); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type htmlBuilder struct {
	doc    *cv.Document
	th     *theme.Theme
	labels map[string]string
	lang   string
	layout theme.LayoutType
}

func (b *htmlBuilder) sidebar(photoURL string) string {
	doc := b.doc
	var parts []string
	push := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	if photoURL != "" {
		push(`<img class="photo" src="%s" alt="Photo">`, photoURL)
	}

	push(`<h1>%s</h1>`, escHTML(doc.Name))
	push(`<div class="title">%s</div>`, escHTML(doc.Title))

	c := doc.Contact
	methods := []struct{ field, value string }{
		{"address", c.Address},
		{"phone", c.Phone},
		{"email", c.Email},
	}
	hasContact := false
	for _, m := range methods {
		if m.value != "" {
			hasContact = true
			break
		}
	}
	if hasContact {
		push(`<div class="sidebar-section-title">%s</div>`, escHTML(b.labels["details"]))
		for _, m := range methods {
			if m.value == "" {
				continue
			}
			text := Glyph(m.field) + " " + m.value
			if ValidURL(m.value) {
				push(`<div class="sidebar-text"><a href="%s">%s</a></div>`, escHTML(m.value), escHTML(text))
			} else {
				push(`<div class="sidebar-text">%s</div>`, escHTML(text))
			}
		}
	}
	if c.Nationality != "" {
		push(`<div class="sidebar-label">%s</div>`, escHTML(b.labels["nationality"]))
		push(`<div class="sidebar-text">%s</div>`, escHTML(c.Nationality))
	}

	if len(doc.Links) > 0 {
		push(`<div class="sidebar-section-title">%s</div>`, escHTML(b.labels["links"]))
		for _, l := range doc.Links {
			text := Glyph(l.Label) + " " + l.Label
			if ValidURL(l.URL) {
				push(`<a href="%s">%s</a><br>`, escHTML(l.URL), escHTML(text))
			} else {
				push(`<div class="sidebar-text">%s</div>`, escHTML(text))
			}
		}
	}

	s := doc.Skills
	if len(s.Leadership) > 0 || len(s.Technical) > 0 {
		push(`<div class="sidebar-section-title">%s</div>`, escHTML(b.labels["skills"]))
		if len(s.Leadership) > 0 {
			push(`<div class="sidebar-label">%s</div>`, escHTML(b.labels["leadership_skills"]))
			for _, skill := range s.Leadership {
				push(`<div class="sidebar-text">%s</div>`, escHTML(skill))
			}
		}
		for _, skill := range s.Technical {
			push(`<div class="sidebar-text">%s</div>`, escHTML(skill))
		}
	}

	if len(s.Languages) > 0 {
		push(`<div class="sidebar-section-title">%s</div>`, escHTML(b.labels["languages"]))
		for _, l := range s.Languages {
			push(`<div class="sidebar-text">%s (%s)</div>`, escHTML(l.Name), escHTML(LevelLabel(b.lang, l.Level)))
		}
	}

	return strings.Join(parts, "\n")
}

func (b *htmlBuilder) inlineHeader() string {
	doc := b.doc
	th := b.th
	var parts []string
	parts = append(parts, `<div style="text-align:center;margin-bottom:0.5cm">`)
	parts = append(parts, fmt.Sprintf(`<div style="font-size:%vpt;font-weight:bold;color:#%s">%s</div>`,
		th.Sizes.NamePT, th.Colors.Primary, escHTML(doc.Name)))
	parts = append(parts, fmt.Sprintf(`<div style="font-size:%vpt;color:#%s;font-style:italic">%s</div>`,
		th.Sizes.BodyPT, th.Colors.TextMuted, escHTML(doc.Title)))

	c := doc.Contact
	var contact []string
	for _, v := range []string{c.Email, c.Phone, c.Address} {
		if v != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		parts = append(parts, fmt.Sprintf(`<div style="font-size:%vpt;color:#%s;margin-top:0.2cm">%s</div>`,
			th.Sizes.SmallPT, th.Colors.TextMuted, escHTML(strings.Join(contact, " | "))))
	}

	var links []string
	for _, l := range doc.Links {
		if ValidURL(l.URL) {
			links = append(links, fmt.Sprintf(`<a href="%s" style="color:#%s">%s</a>`,
				escHTML(l.URL), th.Colors.Accent, escHTML(l.Label)))
		} else {
			links = append(links, escHTML(l.Label))
		}
	}
	if len(links) > 0 {
		parts = append(parts, fmt.Sprintf(`<div style="font-size:%vpt;margin-top:0.1cm">%s</div>`,
			th.Sizes.SmallPT, strings.Join(links, " | ")))
	}

	parts = append(parts, `</div>`)
	return strings.Join(parts, "\n")
}

func (b *htmlBuilder) mainColumn() string {
	var parts []string
	push := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	heading := func(title string) {
		push(`<div class="section-heading">%s</div>`, escHTML(title))
	}
	dates := func(start, end string) {
		if d := FormatRange(start, end); d != "" {
			push(`<div class="entry-dates">%s</div>`, escHTML(d))
		}
	}
	metaLine := func(label, value string) {
		push(`<div class="meta-line"><span class="meta-label">%s:</span> <span class="meta-value">%s</span></div>`,
			escHTML(label), escHTML(value))
	}

	doc := b.doc
	for _, sec := range Plan(doc, b.layout) {
		switch {
		case sec.Custom != nil:
			cs := sec.Custom
			heading(cv.TitleCase(cs.Name))
			for _, e := range cs.Entries {
				if e.IsText {
					push(`<div class="body-text">• %s</div>`, escHTML(e.Text))
					continue
				}
				title := recordField(cs, e.Record, "title")
				if title == "" {
					title = recordField(cs, e.Record, "name")
				}
				if org := recordField(cs, e.Record, "org"); title != "" && org != "" {
					title += ", " + org
				}
				if title != "" {
					push(`<div class="entry-title">%s</div>`, escHTML(title))
				}
				dates(recordField(cs, e.Record, "start"), recordField(cs, e.Record, "end"))
				if d := recordField(cs, e.Record, "description"); d != "" {
					push(`<div class="body-text">%s</div>`, escHTML(d))
				}
				for _, f := range e.Record {
					if customCoreFields[f.Key] || f.Value.IsEmpty() || !cs.AllowsField(f.Key) {
						continue
					}
					metaLine(cv.TitleCase(f.Key), f.Value.Display())
				}
			}

		case sec.Key == "profile":
			heading(b.labels["profile"])
			push(`<div class="body-text">%s</div>`, escHTML(strings.TrimSpace(doc.Profile)))

		case sec.Key == "experience":
			heading(b.labels["experience"])
			for _, e := range doc.Experience {
				title := e.Title
				if e.Org != "" {
					title += " — " + e.Org
				}
				push(`<div class="entry-title">%s</div>`, escHTML(title))
				dates(e.Start, e.End)
				if e.Description != "" {
					push(`<div class="entry-desc">%s</div>`, escHTML(e.Description))
				}
				if len(e.Bullets) > 0 {
					push(`<ul class="bullets">`)
					for _, bullet := range e.Bullets {
						push(`<li>%s</li>`, escHTML(bullet))
					}
					push(`</ul>`)
				}
				for _, f := range e.Extra {
					if f.Value.IsEmpty() {
						continue
					}
					metaLine(cv.TitleCase(f.Key), f.Value.Display())
				}
			}

		case sec.Key == "education":
			heading(b.labels["education"])
			for _, e := range doc.Education {
				title := e.Degree
				if e.Institution != "" {
					title += ", " + e.Institution
				}
				push(`<div class="entry-title">%s</div>`, escHTML(title))
				dates(e.Start, e.End)
				if e.Description != "" {
					push(`<div class="body-text">%s</div>`, escHTML(e.Description))
				}
				if e.Details != "" {
					push(`<div class="entry-desc">%s</div>`, escHTML(e.Details))
				}
			}

		case sec.Key == "certifications":
			heading(b.labels["certifications"])
			for _, e := range doc.Certifications {
				title := e.Name
				if e.Org != "" {
					title += ", " + e.Org
				}
				push(`<div class="entry-title">%s</div>`, escHTML(title))
				dates(e.Start, e.End)
				if e.Description != "" {
					push(`<div class="body-text">%s</div>`, escHTML(e.Description))
				}
			}

		case sec.Key == "publications":
			heading(b.labels["publications"])
			for _, pub := range doc.Publications {
				push(`<div class="entry-title">%s</div>`, escHTML(pub.Title))
				if meta := publicationMeta(pub); meta != "" {
					push(`<div class="entry-dates">%s</div>`, escHTML(meta))
				}
			}

		case sec.Key == "volunteering":
			heading(b.labels["volunteering"])
			for _, e := range doc.Volunteering {
				title := e.Title
				if e.Org != "" {
					title += " — " + e.Org
				}
				push(`<div class="entry-title">%s</div>`, escHTML(title))
				dates(e.Start, e.End)
				if e.Description != "" {
					push(`<div class="body-text">%s</div>`, escHTML(e.Description))
				}
			}

		case sec.Key == "testimonials":
			heading(b.labels["testimonials"])
			for _, t := range doc.Testimonials {
				if t.Quote != "" {
					push(`<div class="testimonial-quote">"%s"</div>`, escHTML(t.Quote))
				}
				push(`<div class="testimonial-author">%s</div>`, escHTML(t.Name))
				var who []string
				for _, v := range []string{t.Role, t.Org} {
					if v != "" {
						who = append(who, v)
					}
				}
				if len(who) > 0 {
					push(`<div class="testimonial-role">%s</div>`, escHTML(strings.Join(who, ", ")))
				}
			}

		case sec.Key == "references":
			heading(b.labels["references"])
			push(`<div class="body-text">%s</div>`, escHTML(doc.References))
		}
	}

	return strings.Join(parts, "\n")
}
