package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/theme"
)

// AssetSource locates referenced assets such as the profile photo.
type AssetSource interface {
	Open(ref string) (io.ReadCloser, error)
}

// Options control language and asset lookup for a render call.
type Options struct {
	// Lang selects the label language, defaulting to "en".
	Lang string
	// Assets resolves photo references. When nil, photos are skipped
	// with a warning.
	Assets AssetSource
}

func (o Options) language() string {
	if o.Lang == "" {
		return "en"
	}
	return o.Lang
}

const photoWidthCM = 2.8

// compact layouts hand this share of the sidebar width to the main column
const compactShave = 0.15

// BuildDocx renders the document as a native word-processor file. The
// result is byte-identical for identical inputs. Unresolvable assets are
// reported as warnings and the render proceeds without them.
func BuildDocx(doc *cv.Document, th *theme.Theme, opts Options) ([]byte, []errors.Warning, error) {
	if doc == nil || th == nil {
		return nil, nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "render needs a document and a resolved theme", nil)
	}
	layout := th.Layout.Type
	if !layout.Valid() {
		return nil, nil, errors.NewRenderError(errors.ErrCodeUnsupportedLayout,
			fmt.Sprintf("unsupported layout type %q", layout), nil)
	}

	lang := opts.language()
	b := &docxBuilder{doc: doc, th: th, labels: Labels(lang), lang: lang, layout: layout}

	model := &docxModel{
		pageTopCM:    th.Layout.PageTopMarginCM,
		pageBottomCM: th.Layout.PageBottomMarginCM,
		pageLeftCM:   th.Layout.PageLeftMarginCM,
		pageRightCM:  th.Layout.PageRightMarginCM,
		font:         th.Fonts.Heading,
		sizePT:       th.Sizes.BodyPT,
		color:        th.Colors.TextBody,
	}

	var warnings []errors.Warning
	if layout == theme.LayoutSingleColumn {
		b.buildSingleColumn(model)
	} else {
		var photo *imageSpec
		if doc.Photo != "" && layout != theme.LayoutCompact {
			img, err := loadPhoto(doc.Photo, opts.Assets)
			if err != nil {
				warnings = append(warnings, errors.NewAssetWarning(doc.Photo, err))
			} else {
				photo = img
			}
		}
		b.buildColumns(model, photo)
	}

	data, err := writeDocx(model)
	if err != nil {
		return nil, warnings, errors.NewRenderError(errors.ErrCodeRenderFailed, "could not assemble document package", err)
	}
	return data, warnings, nil
}

// loadPhoto reads and measures the referenced image. The stored bytes go
// into the package verbatim; width is fixed and height keeps the aspect
// ratio.
func loadPhoto(ref string, source AssetSource) (*imageSpec, error) {
	if source == nil {
		return nil, fmt.Errorf("no asset source configured")
	}
	rc, err := source.Open(ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image reports no dimensions")
	}
	return &imageSpec{
		data:     data,
		ext:      format,
		widthCM:  photoWidthCM,
		heightCM: photoWidthCM * float64(cfg.Height) / float64(cfg.Width),
	}, nil
}

type docxBuilder struct {
	doc    *cv.Document
	th     *theme.Theme
	labels map[string]string
	lang   string
	layout theme.LayoutType
}

func (b *docxBuilder) buildColumns(m *docxModel, photo *imageSpec) {
	sidebarCM := b.th.Layout.SidebarWidthCM
	mainCM := b.th.Layout.MainWidthCM
	sidebarMargins := cellMargins{top: 0.4, bottom: 0.5, left: 0.3, right: 0.3}
	if b.layout == theme.LayoutCompact {
		shaved := sidebarCM * compactShave
		sidebarCM -= shaved
		mainCM += shaved
		sidebarMargins = cellMargins{top: 0.3, bottom: 0.4, left: 0.25, right: 0.25}
	}

	sidebar := cellSpec{widthCM: sidebarCM, fill: b.th.Colors.Primary, margins: sidebarMargins}
	main := cellSpec{widthCM: mainCM, margins: cellMargins{top: 0.3, bottom: 0.5, left: 0.5, right: 0.3}}

	b.sidebarHeader(&sidebar.content, photo)
	b.sidebarContact(&sidebar.content)
	b.sidebarLinks(&sidebar.content)
	b.sidebarSkills(&sidebar.content)
	b.sidebarLanguages(&sidebar.content)
	b.mainColumn(&main.content)

	m.addTable(&tableSpec{cells: []cellSpec{sidebar, main}})
}

func (b *docxBuilder) buildSingleColumn(m *docxModel) {
	th := b.th
	m.addPara(paraSpec{
		runs:    []runSpec{{text: b.doc.Name, bold: true, sizePT: th.Sizes.NamePT, color: th.Colors.Primary, font: th.Fonts.Heading}},
		align:   "center",
		afterPT: 2,
	})
	if b.doc.Title != "" {
		m.addPara(paraSpec{
			runs:    []runSpec{{text: b.doc.Title, italic: true, sizePT: th.Sizes.BodyPT, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			align:   "center",
			afterPT: 4,
		})
	}

	c := b.doc.Contact
	var contactParts []string
	for _, v := range []string{c.Email, c.Phone, c.Address} {
		if v != "" {
			contactParts = append(contactParts, v)
		}
	}
	if len(contactParts) > 0 {
		m.addPara(paraSpec{
			runs:    []runSpec{{text: strings.Join(contactParts, " | "), sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			align:   "center",
			afterPT: 2,
		})
	}
	if len(b.doc.Links) > 0 {
		var runs []runSpec
		for _, l := range b.doc.Links {
			if len(runs) > 0 {
				runs = append(runs, runSpec{text: " | ", sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading})
			}
			r := runSpec{text: l.Label, sizePT: th.Sizes.SmallPT, color: th.Colors.Accent, font: th.Fonts.Heading}
			if ValidURL(l.URL) {
				r.link = l.URL
			}
			runs = append(runs, r)
		}
		m.addPara(paraSpec{runs: runs, align: "center", afterPT: 8})
	}

	var body part
	b.mainColumn(&body)
	for _, p := range body.paras {
		m.addPara(p)
	}
}

// ---- sidebar ----

func (b *docxBuilder) sidebarHeading(text string, beforePT float64) paraSpec {
	return paraSpec{
		runs:     []runSpec{{text: text, bold: true, sizePT: b.th.Sizes.SubheadingPT, color: b.th.Colors.TextLight, font: b.th.Fonts.Heading}},
		align:    "center",
		beforePT: beforePT,
		afterPT:  6,
	}
}

func (b *docxBuilder) sidebarLine(text string, afterPT float64) paraSpec {
	return paraSpec{
		runs:    []runSpec{{text: text, sizePT: b.th.Sizes.SmallPT, color: b.th.Colors.TextLight, font: b.th.Fonts.Heading}},
		align:   "center",
		afterPT: afterPT,
	}
}

func (b *docxBuilder) sidebarHeader(p *part, photo *imageSpec) {
	th := b.th
	if photo != nil {
		p.add(paraSpec{image: photo, align: "center", afterPT: 8})
	}

	// the name breaks after the first word
	name := strings.Replace(b.doc.Name, " ", "\n", 1)
	p.add(paraSpec{
		runs:    []runSpec{{text: name, bold: true, sizePT: th.Sizes.NamePT, color: th.Colors.TextLight, font: th.Fonts.Heading}},
		align:   "center",
		afterPT: 4,
	})

	if b.doc.Title != "" {
		p.add(paraSpec{
			runs:    []runSpec{{text: b.doc.Title, italic: true, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			align:   "center",
			afterPT: 12,
		})
	}
}

func (b *docxBuilder) sidebarContact(p *part) {
	th := b.th
	c := b.doc.Contact
	methods := []struct{ field, value string }{
		{"address", c.Address},
		{"phone", c.Phone},
		{"email", c.Email},
	}

	hasAny := false
	for _, m := range methods {
		if m.value != "" {
			hasAny = true
			break
		}
	}
	if hasAny {
		p.add(b.sidebarHeading(b.labels["details"], 6))
		for _, m := range methods {
			if m.value == "" {
				continue
			}
			r := runSpec{text: Glyph(m.field) + " " + m.value, sizePT: th.Sizes.SmallPT, color: th.Colors.TextLight, font: th.Fonts.Heading}
			if ValidURL(m.value) {
				r.link = m.value
				r.color = th.Colors.Accent
			}
			p.add(paraSpec{runs: []runSpec{r}, align: "center", afterPT: 2})
		}
	}

	if c.Nationality != "" {
		p.add(paraSpec{beforePT: 4})
		p.add(paraSpec{
			runs:     []runSpec{{text: b.labels["nationality"], bold: true, sizePT: th.Sizes.BodyPT, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			align:    "center",
			afterPT:  2,
		})
		p.add(b.sidebarLine(c.Nationality, 6))
	}
}

func (b *docxBuilder) sidebarLinks(p *part) {
	th := b.th
	if len(b.doc.Links) == 0 {
		return
	}
	p.add(b.sidebarHeading(b.labels["links"], 8))
	for _, l := range b.doc.Links {
		r := runSpec{text: Glyph(l.Label) + " " + l.Label, sizePT: th.Sizes.SmallPT, color: th.Colors.Accent, font: th.Fonts.Heading}
		if ValidURL(l.URL) {
			r.link = l.URL
		}
		p.add(paraSpec{runs: []runSpec{r}, align: "center", afterPT: 2})
	}
}

func (b *docxBuilder) sidebarSkills(p *part) {
	th := b.th
	s := b.doc.Skills
	if len(s.Leadership) == 0 && len(s.Technical) == 0 {
		return
	}
	p.add(b.sidebarHeading(b.labels["skills"], 10))

	if len(s.Leadership) > 0 {
		p.add(paraSpec{
			runs:    []runSpec{{text: b.labels["leadership_skills"], bold: true, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			align:   "center",
			afterPT: 4,
		})
		for _, skill := range s.Leadership {
			p.add(b.sidebarLine(skill, 2))
		}
	}

	if len(s.Technical) > 0 {
		p.add(paraSpec{beforePT: 4})
		for _, skill := range s.Technical {
			p.add(b.sidebarLine(skill, 2))
		}
	}
}

func (b *docxBuilder) sidebarLanguages(p *part) {
	if len(b.doc.Skills.Languages) == 0 {
		return
	}
	p.add(b.sidebarHeading(b.labels["languages"], 10))
	for _, l := range b.doc.Skills.Languages {
		p.add(b.sidebarLine(fmt.Sprintf("%s (%s)", l.Name, LevelLabel(b.lang, l.Level)), 2))
	}
}

// ---- main column ----

func (b *docxBuilder) mainColumn(p *part) {
	for _, sec := range Plan(b.doc, b.layout) {
		switch {
		case sec.Custom != nil:
			b.customSection(p, sec.Custom)
		case sec.Key == "profile":
			b.profileSection(p)
		case sec.Key == "experience":
			b.experienceSection(p)
		case sec.Key == "education":
			b.educationSection(p)
		case sec.Key == "certifications":
			b.certificationSection(p)
		case sec.Key == "publications":
			b.publicationSection(p)
		case sec.Key == "volunteering":
			b.volunteeringSection(p)
		case sec.Key == "testimonials":
			b.testimonialSection(p)
		case sec.Key == "references":
			b.referenceSection(p)
		}
	}
}

func (b *docxBuilder) sectionHeading(p *part, title string) {
	th := b.th
	p.add(paraSpec{
		runs:     []runSpec{{text: title, bold: true, sizePT: th.Sizes.HeadingPT, color: th.Colors.Primary, font: th.Fonts.Heading}},
		beforePT: 14,
		afterPT:  6,
	})
	p.add(paraSpec{rule: th.Colors.Accent, afterPT: 4})
}

func (b *docxBuilder) entryTitle(p *part, text string, beforePT float64) {
	th := b.th
	p.add(paraSpec{
		runs:     []runSpec{{text: text, bold: true, sizePT: th.Sizes.BodyPT, color: th.Colors.Primary, font: th.Fonts.Heading}},
		beforePT: beforePT,
		afterPT:  1,
	})
}

func (b *docxBuilder) entryDates(p *part, start, end string) {
	if dates := FormatRange(start, end); dates != "" {
		p.add(paraSpec{
			runs:    []runSpec{{text: dates, sizePT: b.th.Sizes.SmallPT, color: b.th.Colors.TextMuted, font: b.th.Fonts.Heading}},
			afterPT: 2,
		})
	}
}

func (b *docxBuilder) bodyText(p *part, text string, afterPT float64) {
	p.add(paraSpec{
		runs:    []runSpec{{text: text, sizePT: b.th.Sizes.BodyPT, color: b.th.Colors.TextBody, font: b.th.Fonts.Body}},
		afterPT: afterPT,
	})
}

func (b *docxBuilder) labeledLine(p *part, label, value string) {
	th := b.th
	p.add(paraSpec{
		runs: []runSpec{
			{text: label + ": ", bold: true, sizePT: th.Sizes.SmallPT, color: th.Colors.Accent, font: th.Fonts.Heading},
			{text: value, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading},
		},
		beforePT: 1,
		afterPT:  1,
	})
}

func (b *docxBuilder) profileSection(p *part) {
	b.sectionHeading(p, b.labels["profile"])
	b.bodyText(p, strings.TrimSpace(b.doc.Profile), 4)
}

func (b *docxBuilder) experienceSection(p *part) {
	th := b.th
	b.sectionHeading(p, b.labels["experience"])
	for _, e := range b.doc.Experience {
		title := e.Title
		if e.Org != "" {
			title += " — " + e.Org
		}
		b.entryTitle(p, title, 8)
		b.entryDates(p, e.Start, e.End)
		if e.Description != "" {
			p.add(paraSpec{
				runs:    []runSpec{{text: e.Description, italic: true, sizePT: th.Sizes.BodyPT, color: th.Colors.TextMuted, font: th.Fonts.Body}},
				afterPT: 2,
			})
		}
		for _, bullet := range e.Bullets {
			p.add(paraSpec{
				runs:     []runSpec{{text: bullet, sizePT: th.Sizes.SmallPT, color: th.Colors.TextBody, font: th.Fonts.Body}},
				bullet:   true,
				beforePT: 1,
				afterPT:  1,
			})
		}
		for _, f := range e.Extra {
			if f.Value.IsEmpty() {
				continue
			}
			b.labeledLine(p, cv.TitleCase(f.Key), f.Value.Display())
		}
	}
}

func (b *docxBuilder) educationSection(p *part) {
	th := b.th
	b.sectionHeading(p, b.labels["education"])
	for _, e := range b.doc.Education {
		title := e.Degree
		if e.Institution != "" {
			title += ", " + e.Institution
		}
		b.entryTitle(p, title, 6)
		b.entryDates(p, e.Start, e.End)
		if e.Description != "" {
			b.bodyText(p, e.Description, 2)
		}
		if e.Details != "" {
			p.add(paraSpec{
				runs:    []runSpec{{text: e.Details, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Body}},
				afterPT: 2,
			})
		}
	}
}

func (b *docxBuilder) certificationSection(p *part) {
	b.sectionHeading(p, b.labels["certifications"])
	for _, e := range b.doc.Certifications {
		title := e.Name
		if e.Org != "" {
			title += ", " + e.Org
		}
		b.entryTitle(p, title, 6)
		b.entryDates(p, e.Start, e.End)
		if e.Description != "" {
			b.bodyText(p, e.Description, 2)
		}
	}
}

func (b *docxBuilder) publicationSection(p *part) {
	th := b.th
	b.sectionHeading(p, b.labels["publications"])
	for _, pub := range b.doc.Publications {
		runs := []runSpec{{text: pub.Title, bold: true, sizePT: th.Sizes.BodyPT, color: th.Colors.Primary, font: th.Fonts.Heading}}
		if meta := publicationMeta(pub); meta != "" {
			runs = append(runs, runSpec{text: "\n" + meta, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading})
		}
		p.add(paraSpec{runs: runs, beforePT: 4, afterPT: 2})
	}
}

func publicationMeta(pub cv.Publication) string {
	switch {
	case pub.Year != 0 && pub.Venue != "":
		return fmt.Sprintf("%d: %s", pub.Year, pub.Venue)
	case pub.Year != 0:
		return fmt.Sprintf("%d", pub.Year)
	default:
		return pub.Venue
	}
}

func (b *docxBuilder) volunteeringSection(p *part) {
	b.sectionHeading(p, b.labels["volunteering"])
	for _, e := range b.doc.Volunteering {
		title := e.Title
		if e.Org != "" {
			title += " — " + e.Org
		}
		b.entryTitle(p, title, 6)
		b.entryDates(p, e.Start, e.End)
		if e.Description != "" {
			b.bodyText(p, e.Description, 2)
		}
	}
}

func (b *docxBuilder) testimonialSection(p *part) {
	th := b.th
	b.sectionHeading(p, b.labels["testimonials"])
	for _, t := range b.doc.Testimonials {
		if t.Quote != "" {
			p.add(paraSpec{
				runs:    []runSpec{{text: t.Quote, italic: true, sizePT: th.Sizes.BodyPT, color: th.Colors.TextMuted, font: th.Fonts.Body}},
				afterPT: 4,
			})
		}
		runs := []runSpec{{text: t.Name, bold: true, sizePT: th.Sizes.BodyPT, color: th.Colors.Primary, font: th.Fonts.Heading}}
		if t.Role != "" {
			runs = append(runs, runSpec{text: "\n" + t.Role, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading})
		}
		if t.Org != "" {
			runs = append(runs, runSpec{text: "\n" + t.Org, sizePT: th.Sizes.SmallPT, color: th.Colors.TextMuted, font: th.Fonts.Heading})
		}
		p.add(paraSpec{runs: runs, afterPT: 2})
	}
}

func (b *docxBuilder) referenceSection(p *part) {
	b.sectionHeading(p, b.labels["references"])
	b.bodyText(p, b.doc.References, 4)
}

// ---- custom sections ----

var customCoreFields = map[string]bool{
	"title":       true,
	"name":        true,
	"org":         true,
	"start":       true,
	"end":         true,
	"description": true,
}

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

func (b *docxBuilder) customSection(p *part, sec *cv.CustomSection) {
	th := b.th
	b.sectionHeading(p, cv.TitleCase(sec.Name))
	for _, e := range sec.Entries {
		if e.IsText {
			p.add(paraSpec{
				runs:     []runSpec{{text: e.Text, sizePT: th.Sizes.BodyPT, color: th.Colors.TextBody, font: th.Fonts.Body}},
				bullet:   true,
				beforePT: 1,
				afterPT:  1,
			})
			continue
		}
		b.customRecord(p, sec, e.Record)
	}
}

func (b *docxBuilder) customRecord(p *part, sec *cv.CustomSection, rec cv.Fields) {
	title := recordField(sec, rec, "title")
	if title == "" {
		title = recordField(sec, rec, "name")
	}
	if org := recordField(sec, rec, "org"); title != "" && org != "" {
		title += ", " + org
	}
	if title != "" {
		b.entryTitle(p, title, 6)
	}
	b.entryDates(p, recordField(sec, rec, "start"), recordField(sec, rec, "end"))
	if d := recordField(sec, rec, "description"); d != "" {
		b.bodyText(p, d, 2)
	}
	for _, f := range rec {
		if customCoreFields[f.Key] || f.Value.IsEmpty() || !sec.AllowsField(f.Key) {
			continue
		}
		b.labeledLine(p, cv.TitleCase(f.Key), f.Value.Display())
	}
}
