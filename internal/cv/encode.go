package cv

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the document with canonical field order, 2-space
// indent and block scalars for long free text. Keys are never sorted.
func ToYAML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.node()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML emits the same ordered tree as ToYAML.
func (d *Document) MarshalYAML() (any, error) {
	return d.node(), nil
}

// ToJSON is the complete structural dump of the document: every present
// section under its source name, custom sections and free-form fields
// included, nothing renamed or omitted. FromJSON reads it back losslessly.
func ToJSON(d *Document) []byte {
	var buf bytes.Buffer
	writeJSON(d.node(), &buf, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// FromJSON parses a ToJSON dump back into a document. JSON is a YAML
// subset, so this runs the same decoder and schema checks as Parse.
func FromJSON(data []byte) (*Document, error) {
	return Parse(data)
}

// node builds the ordered representation shared by the YAML and JSON
// writers. Section order here is the document's canonical field order.
func (d *Document) node() *yaml.Node {
	root := mappingNode()
	addPair(root, "name", strNode(d.Name))
	addPair(root, "title", strNode(d.Title))
	if d.Photo != "" {
		addPair(root, "photo", strNode(d.Photo))
	}
	addPair(root, "contact", contactNode(d.Contact))
	if d.Links != nil {
		addPair(root, "links", linksNode(d.Links))
	}
	if !d.Skills.IsZero() {
		addPair(root, "skills", skillsNode(d.Skills))
	}
	if d.Profile != "" {
		addPair(root, "profile", strNode(d.Profile))
	}
	if d.Experience != nil {
		addPair(root, "experience", experienceNode(d.Experience))
	}
	if d.Education != nil {
		addPair(root, "education", educationNode(d.Education))
	}
	if d.Certifications != nil {
		addPair(root, "certifications", certificationsNode(d.Certifications))
	}
	if d.Publications != nil {
		addPair(root, "publications", publicationsNode(d.Publications))
	}
	if d.Volunteering != nil {
		addPair(root, "volunteering", volunteeringNode(d.Volunteering))
	}
	if d.Testimonials != nil {
		addPair(root, "testimonials", testimonialsNode(d.Testimonials))
	}
	if d.References != "" {
		addPair(root, "references", strNode(d.References))
	}
	for _, sec := range d.Custom {
		addPair(root, sec.Name, customSectionNode(sec))
	}
	for _, f := range d.Extra {
		addPair(root, f.Key, valueNode(f.Value))
	}
	return root
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func strNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.ContainsRune(s, '\n') || len(s) > 100 {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func keyNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func addPair(m *yaml.Node, key string, val *yaml.Node) {
	m.Content = append(m.Content, keyNode(key), val)
}

func addStrIf(m *yaml.Node, key, val string) {
	if val != "" {
		addPair(m, key, strNode(val))
	}
}

func strListNode(items []string) *yaml.Node {
	seq := sequenceNode()
	for _, s := range items {
		seq.Content = append(seq.Content, strNode(s))
	}
	return seq
}

func valueNode(v Value) *yaml.Node {
	if v.IsList {
		return strListNode(v.List)
	}
	return strNode(v.Scalar)
}

func fieldsInto(m *yaml.Node, fields Fields) {
	for _, f := range fields {
		addPair(m, f.Key, valueNode(f.Value))
	}
}

func contactNode(c Contact) *yaml.Node {
	m := mappingNode()
	addStrIf(m, "address", c.Address)
	addStrIf(m, "phone", c.Phone)
	addStrIf(m, "email", c.Email)
	addStrIf(m, "nationality", c.Nationality)
	return m
}

func linksNode(links []Link) *yaml.Node {
	seq := sequenceNode()
	for _, lk := range links {
		m := mappingNode()
		addPair(m, "label", strNode(lk.Label))
		addPair(m, "url", strNode(lk.URL))
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func skillsNode(s Skills) *yaml.Node {
	m := mappingNode()
	if s.Leadership != nil {
		addPair(m, "leadership", strListNode(s.Leadership))
	}
	if s.Technical != nil {
		addPair(m, "technical", strListNode(s.Technical))
	}
	if s.Languages != nil {
		seq := sequenceNode()
		for _, lg := range s.Languages {
			lm := mappingNode()
			addPair(lm, "name", strNode(lg.Name))
			addPair(lm, "level", strNode(lg.Level))
			seq.Content = append(seq.Content, lm)
		}
		addPair(m, "languages", seq)
	}
	return m
}

func experienceNode(entries []Experience) *yaml.Node {
	seq := sequenceNode()
	for _, e := range entries {
		m := mappingNode()
		addPair(m, "title", strNode(e.Title))
		addPair(m, "org", strNode(e.Org))
		addPair(m, "start", strNode(e.Start))
		addPair(m, "end", strNode(e.End))
		addStrIf(m, "description", e.Description)
		if e.Bullets != nil {
			addPair(m, "bullets", strListNode(e.Bullets))
		}
		fieldsInto(m, e.Extra)
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func educationNode(entries []Education) *yaml.Node {
	seq := sequenceNode()
	for _, e := range entries {
		m := mappingNode()
		addPair(m, "degree", strNode(e.Degree))
		addPair(m, "institution", strNode(e.Institution))
		addPair(m, "start", strNode(e.Start))
		addPair(m, "end", strNode(e.End))
		addStrIf(m, "description", e.Description)
		addStrIf(m, "details", e.Details)
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func certificationsNode(entries []Certification) *yaml.Node {
	seq := sequenceNode()
	for _, c := range entries {
		m := mappingNode()
		addPair(m, "name", strNode(c.Name))
		addStrIf(m, "org", c.Org)
		addPair(m, "start", strNode(c.Start))
		addPair(m, "end", strNode(c.End))
		addStrIf(m, "description", c.Description)
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func publicationsNode(entries []Publication) *yaml.Node {
	seq := sequenceNode()
	for _, p := range entries {
		m := mappingNode()
		addPair(m, "title", strNode(p.Title))
		addPair(m, "year", intNode(p.Year))
		addPair(m, "venue", strNode(p.Venue))
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func volunteeringNode(entries []Volunteering) *yaml.Node {
	seq := sequenceNode()
	for _, v := range entries {
		m := mappingNode()
		addPair(m, "title", strNode(v.Title))
		addPair(m, "org", strNode(v.Org))
		addPair(m, "start", strNode(v.Start))
		addPair(m, "end", strNode(v.End))
		addStrIf(m, "description", v.Description)
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func testimonialsNode(entries []Testimonial) *yaml.Node {
	seq := sequenceNode()
	for _, t := range entries {
		m := mappingNode()
		addPair(m, "name", strNode(t.Name))
		addPair(m, "role", strNode(t.Role))
		addPair(m, "org", strNode(t.Org))
		addPair(m, "quote", strNode(t.Quote))
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func customSectionNode(sec CustomSection) *yaml.Node {
	seq := sequenceNode()
	for _, entry := range sec.Entries {
		if entry.IsText {
			seq.Content = append(seq.Content, strNode(entry.Text))
			continue
		}
		m := mappingNode()
		fieldsInto(m, entry.Record)
		seq.Content = append(seq.Content, m)
	}
	return seq
}

// writeJSON renders the ordered node tree as indented JSON. Mapping order
// is preserved, which encoding/json's map marshaling would not do.
func writeJSON(n *yaml.Node, buf *bytes.Buffer, depth int) {
	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			writeJSONIndent(buf, depth+1)
			writeJSONString(buf, n.Content[i].Value)
			buf.WriteString(": ")
			writeJSON(n.Content[i+1], buf, depth+1)
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeJSONIndent(buf, depth)
		buf.WriteByte('}')
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			writeJSONIndent(buf, depth+1)
			writeJSON(item, buf, depth+1)
			if i+1 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeJSONIndent(buf, depth)
		buf.WriteByte(']')
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!int", "!!float", "!!bool":
			buf.WriteString(n.Value)
		default:
			writeJSONString(buf, n.Value)
		}
	}
}

func writeJSONIndent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// strings cannot fail to marshal
		b = []byte(`""`)
	}
	buf.Write(b)
}
