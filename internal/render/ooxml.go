package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math"
	"strings"
)

// This file emits WordprocessingML directly. The layout needs shaded
// fixed-width table cells, per-cell margins, paragraph bottom borders and
// external hyperlinks, and the output must be byte-identical across runs
// for the same input, so the document package is assembled by hand.

const (
	twipsPerCM = 567
	emuPerCM   = 360000
)

func twips(cm float64) int { return int(cm * twipsPerCM) }

func halfPoints(pt float64) int { return int(pt * 2) }

// twentieths of a point, the unit of w:spacing
func spacingUnits(pt float64) int { return int(pt * 20) }

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func esc(s string) string { return xmlEscaper.Replace(s) }

// runSpec is one styled text run. Newlines in text become line breaks.
// A non-empty link wraps the run in an external hyperlink.
type runSpec struct {
	text   string
	bold   bool
	italic bool
	sizePT float64
	color  string
	font   string
	link   string
}

// imageSpec is an inline picture, scaled to widthCM x heightCM.
type imageSpec struct {
	data     []byte
	ext      string
	widthCM  float64
	heightCM float64
}

// paraSpec is one paragraph: runs plus paragraph-level formatting. When
// image is set the paragraph holds the picture instead of text. A
// non-empty rule draws an accent bottom border.
type paraSpec struct {
	runs     []runSpec
	image    *imageSpec
	align    string
	beforePT float64
	afterPT  float64
	bullet   bool
	rule     string
}

// part is an ordered paragraph stream: the document body or one cell.
type part struct {
	paras []paraSpec
}

func (p *part) add(paras ...paraSpec) {
	p.paras = append(p.paras, paras...)
}

type cellMargins struct {
	top, bottom, left, right float64
}

// cellSpec is one table cell with its geometry and shading.
type cellSpec struct {
	widthCM float64
	fill    string
	margins cellMargins
	content part
}

type tableSpec struct {
	cells []cellSpec
}

// block is either a table or a direct body paragraph.
type block struct {
	table *tableSpec
	para  *paraSpec
}

// docxModel is the complete document: page geometry, run defaults and the
// body block sequence.
type docxModel struct {
	pageTopCM    float64
	pageBottomCM float64
	pageLeftCM   float64
	pageRightCM  float64
	font         string
	sizePT       float64
	color        string
	blocks       []block
}

func (m *docxModel) addTable(t *tableSpec) { m.blocks = append(m.blocks, block{table: t}) }

func (m *docxModel) addPara(p paraSpec) { m.blocks = append(m.blocks, block{para: &p}) }

type relEntry struct {
	id       string
	relType  string
	target   string
	external bool
}

type mediaEntry struct {
	name string
	data []byte
}

// docxWriter serializes a docxModel into the zipped document package.
// Relationship ids are assigned in emission order, so identical models
// produce identical bytes.
type docxWriter struct {
	rels   []relEntry
	media  []mediaEntry
	imgSeq int
}

const (
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// rId1 and rId2 are reserved for styles.xml and numbering.xml.
func (w *docxWriter) addRel(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", len(w.rels)+3)
	w.rels = append(w.rels, relEntry{id: id, relType: relType, target: target, external: external})
	return id
}

func writeDocx(m *docxModel) ([]byte, error) {
	w := &docxWriter{}

	var body strings.Builder
	for _, blk := range m.blocks {
		if blk.table != nil {
			w.writeTable(&body, blk.table)
			continue
		}
		w.writePara(&body, *blk.para)
	}
	w.writeSectPr(&body, m)

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	doc.WriteString(`<w:document` +
		` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	doc.WriteString("<w:body>")
	doc.WriteString(body.String())
	doc.WriteString("</w:body></w:document>")

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", doc.String()},
		{"word/_rels/document.xml.rels", w.documentRelsXML()},
		{"word/styles.xml", stylesXML(m)},
		{"word/numbering.xml", numberingXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(p.data)); err != nil {
			return nil, err
		}
	}
	for _, mf := range w.media {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: "word/" + mf.name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(mf.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *docxWriter) writeTable(sb *strings.Builder, t *tableSpec) {
	total := 0
	for _, c := range t.cells {
		total += twips(c.widthCM)
	}

	sb.WriteString("<w:tbl><w:tblPr>")
	fmt.Fprintf(sb, `<w:tblW w:w="%d" w:type="dxa"/>`, total)
	sb.WriteString(`<w:tblBorders>` +
		`<w:top w:val="none" w:sz="0" w:space="0"/>` +
		`<w:left w:val="none" w:sz="0" w:space="0"/>` +
		`<w:bottom w:val="none" w:sz="0" w:space="0"/>` +
		`<w:right w:val="none" w:sz="0" w:space="0"/>` +
		`<w:insideH w:val="none" w:sz="0" w:space="0"/>` +
		`<w:insideV w:val="none" w:sz="0" w:space="0"/>` +
		`</w:tblBorders>`)
	sb.WriteString(`<w:tblLayout w:type="fixed"/>`)
	sb.WriteString("</w:tblPr><w:tblGrid>")
	for _, c := range t.cells {
		fmt.Fprintf(sb, `<w:gridCol w:w="%d"/>`, twips(c.widthCM))
	}
	sb.WriteString("</w:tblGrid><w:tr>")
	for _, c := range t.cells {
		w.writeCell(sb, c)
	}
	sb.WriteString("</w:tr></w:tbl>")
	// a table may not end the body without a trailing paragraph
	sb.WriteString("<w:p/>")
}

func (w *docxWriter) writeCell(sb *strings.Builder, c cellSpec) {
	sb.WriteString("<w:tc><w:tcPr>")
	fmt.Fprintf(sb, `<w:tcW w:w="%d" w:type="dxa"/>`, twips(c.widthCM))
	sb.WriteString(`<w:tcBorders>` +
		`<w:top w:val="none" w:sz="0" w:space="0"/>` +
		`<w:left w:val="none" w:sz="0" w:space="0"/>` +
		`<w:bottom w:val="none" w:sz="0" w:space="0"/>` +
		`<w:right w:val="none" w:sz="0" w:space="0"/>` +
		`</w:tcBorders>`)
	if c.fill != "" {
		fmt.Fprintf(sb, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, esc(c.fill))
	}
	fmt.Fprintf(sb, `<w:tcMar>`+
		`<w:top w:w="%d" w:type="dxa"/>`+
		`<w:left w:w="%d" w:type="dxa"/>`+
		`<w:bottom w:w="%d" w:type="dxa"/>`+
		`<w:right w:w="%d" w:type="dxa"/>`+
		`</w:tcMar>`,
		twips(c.margins.top), twips(c.margins.left), twips(c.margins.bottom), twips(c.margins.right))
	sb.WriteString("</w:tcPr>")
	if len(c.content.paras) == 0 {
		sb.WriteString("<w:p/>")
	}
	for _, p := range c.content.paras {
		w.writePara(sb, p)
	}
	sb.WriteString("</w:tc>")
}

func (w *docxWriter) writePara(sb *strings.Builder, p paraSpec) {
	sb.WriteString("<w:p><w:pPr>")
	if p.bullet {
		sb.WriteString(`<w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr>`)
	}
	if p.rule != "" {
		fmt.Fprintf(sb, `<w:pBdr><w:bottom w:val="single" w:sz="4" w:space="1" w:color="%s"/></w:pBdr>`, esc(p.rule))
	}
	fmt.Fprintf(sb, `<w:spacing w:before="%d" w:after="%d"/>`, spacingUnits(p.beforePT), spacingUnits(p.afterPT))
	if p.align != "" {
		fmt.Fprintf(sb, `<w:jc w:val="%s"/>`, p.align)
	}
	sb.WriteString("</w:pPr>")

	if p.image != nil {
		w.writeImageRun(sb, p.image)
	} else {
		for _, r := range p.runs {
			w.writeRun(sb, r)
		}
	}
	sb.WriteString("</w:p>")
}

func (w *docxWriter) writeRun(sb *strings.Builder, r runSpec) {
	if r.link != "" {
		id := w.addRel(relHyperlink, r.link, true)
		fmt.Fprintf(sb, `<w:hyperlink r:id="%s">`, id)
		defer sb.WriteString("</w:hyperlink>")
	}
	sb.WriteString("<w:r><w:rPr>")
	if r.font != "" {
		fmt.Fprintf(sb, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, esc(r.font), esc(r.font), esc(r.font))
	}
	if r.bold {
		sb.WriteString("<w:b/>")
	}
	if r.italic {
		sb.WriteString("<w:i/>")
	}
	if r.link != "" {
		sb.WriteString(`<w:u w:val="single"/>`)
	}
	if r.color != "" {
		fmt.Fprintf(sb, `<w:color w:val="%s"/>`, esc(r.color))
	}
	if r.sizePT > 0 {
		fmt.Fprintf(sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, halfPoints(r.sizePT), halfPoints(r.sizePT))
	}
	sb.WriteString("</w:rPr>")
	for i, line := range strings.Split(r.text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		if line != "" {
			fmt.Fprintf(sb, `<w:t xml:space="preserve">%s</w:t>`, esc(line))
		}
	}
	sb.WriteString("</w:r>")
}

func (w *docxWriter) writeImageRun(sb *strings.Builder, img *imageSpec) {
	w.imgSeq++
	name := fmt.Sprintf("media/image%d.%s", w.imgSeq, img.ext)
	id := w.addRel(relImage, name, false)
	w.media = append(w.media, mediaEntry{name: name, data: img.data})

	cx := int64(math.Round(img.widthCM * emuPerCM))
	cy := int64(math.Round(img.heightCM * emuPerCM))
	fmt.Fprintf(sb, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, w.imgSeq, w.imgSeq, w.imgSeq, w.imgSeq, id, cx, cy)
}

// A4 page size in twips.
const (
	pageWidthTwips  = 11906
	pageHeightTwips = 16838
)

func (w *docxWriter) writeSectPr(sb *strings.Builder, m *docxModel) {
	fmt.Fprintf(sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/>`+
		`</w:sectPr>`,
		pageWidthTwips, pageHeightTwips,
		twips(m.pageTopCM), twips(m.pageRightCM), twips(m.pageBottomCM), twips(m.pageLeftCM))
}

func (w *docxWriter) documentRelsXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	sb.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	for _, r := range w.rels {
		mode := ""
		if r.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.relType, esc(r.target), mode)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="jpeg" ContentType="image/jpeg"/><Default Extension="png" ContentType="image/png"/><Default Extension="gif" ContentType="image/gif"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/><Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/></Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

func stylesXML(m *docxModel) string {
	sz := halfPoints(m.sizePT)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/><w:color w:val="%s"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:before="0" w:after="0"/></w:pPr></w:pPrDefault></w:docDefaults><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`,
		esc(m.font), esc(m.font), esc(m.font), esc(m.color), sz, sz)
}

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="singleLevel"/><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="425" w:hanging="198"/></w:pPr></w:lvl></w:abstractNum><w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num></w:numbering>`
