package cv

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"resumake/internal/errors"
)

// Parse decodes and validates a CV document from YAML (or JSON, which is
// a YAML subset). Problems are collected across the whole document and
// returned together as a *errors.SchemaError, never one at a time.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"cv document is not valid YAML", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.NewSchemaError([]errors.FieldError{
			{Path: "document", Message: "document is empty"},
		})
	}

	d := &decoder{}
	doc := d.decodeDocument(root.Content[0])
	if len(d.problems) > 0 {
		return nil, errors.NewSchemaError(d.problems)
	}
	return doc, nil
}

// Load reads and parses the CV file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("cv file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read cv file: %s", path), err)
	}
	return Parse(data)
}

// Check parses data and returns the complete list of validation problems.
// An empty list means the document is valid.
func Check(data []byte) []errors.FieldError {
	_, err := Parse(data)
	if err == nil {
		return nil
	}
	var schemaErr *errors.SchemaError
	if stderrors.As(err, &schemaErr) {
		return schemaErr.Problems
	}
	return []errors.FieldError{{Path: "document", Message: err.Error()}}
}

type decoder struct {
	problems []errors.FieldError
}

func (d *decoder) addf(path, format string, args ...any) {
	d.problems = append(d.problems, errors.FieldError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// deref resolves alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Tag == "!!null"
}

// requiredDocKeys must be present and non-null at the top level.
var requiredDocKeys = []string{"name", "title", "contact", "experience"}

func (d *decoder) decodeDocument(n *yaml.Node) *Document {
	doc := &Document{}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		d.addf("document", "expected a mapping at the top level")
		return doc
	}

	present := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isNull(deref(n.Content[i+1])) {
			present[n.Content[i].Value] = true
		}
	}
	for _, key := range requiredDocKeys {
		if !present[key] {
			d.addf(key, "required field is missing")
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := deref(n.Content[i+1])
		if isNull(val) {
			continue
		}
		switch key {
		case "name":
			doc.Name = d.stringAt(val, "name")
		case "title":
			doc.Title = d.stringAt(val, "title")
		case "photo":
			doc.Photo = d.stringAt(val, "photo")
		case "contact":
			doc.Contact = d.decodeContact(val)
		case "links":
			doc.Links = d.decodeLinks(val)
		case "skills":
			doc.Skills = d.decodeSkills(val)
		case "profile":
			doc.Profile = d.stringAt(val, "profile")
		case "experience":
			doc.Experience = d.decodeExperience(val)
		case "education":
			doc.Education = d.decodeEducation(val)
		case "certifications":
			doc.Certifications = d.decodeCertifications(val)
		case "publications":
			doc.Publications = d.decodePublications(val)
		case "volunteering":
			doc.Volunteering = d.decodeVolunteering(val)
		case "testimonials":
			doc.Testimonials = d.decodeTestimonials(val)
		case "references":
			doc.References = d.stringAt(val, "references")
		default:
			if val.Kind == yaml.SequenceNode {
				doc.Custom = append(doc.Custom, d.decodeCustomSection(key, val))
			} else if v, ok := d.valueAt(val, key); ok {
				doc.Extra = append(doc.Extra, Field{Key: key, Value: v})
			}
		}
	}

	return doc
}

func (d *decoder) stringAt(n *yaml.Node, path string) string {
	n = deref(n)
	if isNull(n) {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		d.addf(path, "expected a string")
		return ""
	}
	return n.Value
}

func (d *decoder) intAt(n *yaml.Node, path string) int {
	n = deref(n)
	if isNull(n) {
		return 0
	}
	if n.Kind == yaml.ScalarNode {
		if v, err := strconv.Atoi(strings.TrimSpace(n.Value)); err == nil {
			return v
		}
	}
	d.addf(path, "expected an integer")
	return 0
}

func (d *decoder) stringListAt(n *yaml.Node, path string) []string {
	n = deref(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.addf(path, "expected a list of strings")
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		item = deref(item)
		if isNull(item) || item.Kind != yaml.ScalarNode {
			d.addf(fmt.Sprintf("%s[%d]", path, i), "expected a string")
			continue
		}
		out = append(out, item.Value)
	}
	return out
}

// valueAt decodes a free-form field value: a scalar or a list of scalars.
func (d *decoder) valueAt(n *yaml.Node, path string) (Value, bool) {
	n = deref(n)
	switch {
	case isNull(n):
		return Value{}, true
	case n.Kind == yaml.ScalarNode:
		return Value{Scalar: n.Value}, true
	case n.Kind == yaml.SequenceNode:
		list := make([]string, 0, len(n.Content))
		ok := true
		for i, item := range n.Content {
			item = deref(item)
			if isNull(item) || item.Kind != yaml.ScalarNode {
				d.addf(fmt.Sprintf("%s[%d]", path, i), "expected a scalar")
				ok = false
				continue
			}
			list = append(list, item.Value)
		}
		return Value{List: list, IsList: true}, ok
	default:
		d.addf(path, "expected a scalar or a list of scalars")
		return Value{}, false
	}
}

// eachField walks a mapping's key/value pairs. Null values are skipped so
// that required-field checks treat them as absent. Returns false when the
// node is not a mapping.
func (d *decoder) eachField(n *yaml.Node, path string, fn func(key string, val *yaml.Node)) bool {
	n = deref(n)
	if isNull(n) {
		return false
	}
	if n.Kind != yaml.MappingNode {
		d.addf(path, "expected a mapping")
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		val := deref(n.Content[i+1])
		if isNull(val) {
			continue
		}
		fn(n.Content[i].Value, val)
	}
	return true
}

// eachItem walks a sequence. Returns false when the node is not a sequence.
func (d *decoder) eachItem(n *yaml.Node, path string, fn func(i int, item *yaml.Node)) bool {
	n = deref(n)
	if isNull(n) {
		return false
	}
	if n.Kind != yaml.SequenceNode {
		d.addf(path, "expected a list")
		return false
	}
	for i, item := range n.Content {
		fn(i, deref(item))
	}
	return true
}

func (d *decoder) requireSeen(seen map[string]bool, path string, keys ...string) {
	for _, k := range keys {
		if !seen[k] {
			d.addf(path+"."+k, "required field is missing")
		}
	}
}

func (d *decoder) decodeContact(n *yaml.Node) Contact {
	var c Contact
	d.eachField(n, "contact", func(key string, val *yaml.Node) {
		switch key {
		case "address":
			c.Address = d.stringAt(val, "contact.address")
		case "phone":
			c.Phone = d.stringAt(val, "contact.phone")
		case "email":
			c.Email = d.stringAt(val, "contact.email")
		case "nationality":
			c.Nationality = d.stringAt(val, "contact.nationality")
		}
	})
	return c
}

func (d *decoder) decodeLinks(n *yaml.Node) []Link {
	links := []Link{}
	if !d.eachItem(n, "links", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("links[%d]", i)
		var lk Link
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "label":
				lk.Label = d.stringAt(val, path+".label")
			case "url":
				lk.URL = d.stringAt(val, path+".url")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "label", "url")
		links = append(links, lk)
	}) {
		return nil
	}
	return links
}

func (d *decoder) decodeSkills(n *yaml.Node) Skills {
	var s Skills
	d.eachField(n, "skills", func(key string, val *yaml.Node) {
		switch key {
		case "leadership":
			s.Leadership = d.stringListAt(val, "skills.leadership")
		case "technical":
			s.Technical = d.stringListAt(val, "skills.technical")
		case "languages":
			s.Languages = d.decodeLanguages(val)
		}
	})
	return s
}

func (d *decoder) decodeLanguages(n *yaml.Node) []Language {
	langs := []Language{}
	if !d.eachItem(n, "skills.languages", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("skills.languages[%d]", i)
		var lg Language
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "name":
				lg.Name = d.stringAt(val, path+".name")
			case "level":
				lg.Level = d.stringAt(val, path+".level")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "name", "level")
		langs = append(langs, lg)
	}) {
		return nil
	}
	return langs
}

func (d *decoder) decodeExperience(n *yaml.Node) []Experience {
	entries := []Experience{}
	if !d.eachItem(n, "experience", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("experience[%d]", i)
		var e Experience
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "title":
				e.Title = d.stringAt(val, path+".title")
			case "org":
				e.Org = d.stringAt(val, path+".org")
			case "start":
				e.Start = d.stringAt(val, path+".start")
			case "end":
				e.End = d.stringAt(val, path+".end")
			case "description":
				e.Description = d.stringAt(val, path+".description")
			case "bullets":
				e.Bullets = d.stringListAt(val, path+".bullets")
			default:
				if v, ok := d.valueAt(val, path+"."+key); ok {
					e.Extra = append(e.Extra, Field{Key: key, Value: v})
				}
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "title", "org", "start", "end")
		entries = append(entries, e)
	}) {
		return nil
	}
	return entries
}

func (d *decoder) decodeEducation(n *yaml.Node) []Education {
	entries := []Education{}
	if !d.eachItem(n, "education", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("education[%d]", i)
		var e Education
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "degree":
				e.Degree = d.stringAt(val, path+".degree")
			case "institution":
				e.Institution = d.stringAt(val, path+".institution")
			case "start":
				e.Start = d.stringAt(val, path+".start")
			case "end":
				e.End = d.stringAt(val, path+".end")
			case "description":
				e.Description = d.stringAt(val, path+".description")
			case "details":
				e.Details = d.stringAt(val, path+".details")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "degree", "institution", "start", "end")
		entries = append(entries, e)
	}) {
		return nil
	}
	return entries
}

func (d *decoder) decodeCertifications(n *yaml.Node) []Certification {
	entries := []Certification{}
	if !d.eachItem(n, "certifications", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("certifications[%d]", i)
		var c Certification
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "name":
				c.Name = d.stringAt(val, path+".name")
			case "org":
				c.Org = d.stringAt(val, path+".org")
			case "start":
				c.Start = d.stringAt(val, path+".start")
			case "end":
				c.End = d.stringAt(val, path+".end")
			case "description":
				c.Description = d.stringAt(val, path+".description")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "name", "start", "end")
		entries = append(entries, c)
	}) {
		return nil
	}
	return entries
}

func (d *decoder) decodePublications(n *yaml.Node) []Publication {
	entries := []Publication{}
	if !d.eachItem(n, "publications", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("publications[%d]", i)
		var p Publication
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "title":
				p.Title = d.stringAt(val, path+".title")
			case "year":
				p.Year = d.intAt(val, path+".year")
			case "venue":
				p.Venue = d.stringAt(val, path+".venue")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "title", "year", "venue")
		entries = append(entries, p)
	}) {
		return nil
	}
	return entries
}

func (d *decoder) decodeVolunteering(n *yaml.Node) []Volunteering {
	entries := []Volunteering{}
	if !d.eachItem(n, "volunteering", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("volunteering[%d]", i)
		var v Volunteering
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "title":
				v.Title = d.stringAt(val, path+".title")
			case "org":
				v.Org = d.stringAt(val, path+".org")
			case "start":
				v.Start = d.stringAt(val, path+".start")
			case "end":
				v.End = d.stringAt(val, path+".end")
			case "description":
				v.Description = d.stringAt(val, path+".description")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "title", "org", "start", "end")
		entries = append(entries, v)
	}) {
		return nil
	}
	return entries
}

func (d *decoder) decodeTestimonials(n *yaml.Node) []Testimonial {
	entries := []Testimonial{}
	if !d.eachItem(n, "testimonials", func(i int, item *yaml.Node) {
		path := fmt.Sprintf("testimonials[%d]", i)
		var t Testimonial
		seen := map[string]bool{}
		if !d.eachField(item, path, func(key string, val *yaml.Node) {
			seen[key] = true
			switch key {
			case "name":
				t.Name = d.stringAt(val, path+".name")
			case "role":
				t.Role = d.stringAt(val, path+".role")
			case "org":
				t.Org = d.stringAt(val, path+".org")
			case "quote":
				t.Quote = d.stringAt(val, path+".quote")
			}
		}) {
			return
		}
		d.requireSeen(seen, path, "name", "role", "org", "quote")
		entries = append(entries, t)
	}) {
		return nil
	}
	return entries
}

// decodeCustomSection captures an unrecognized list-valued key. The display
// field list is frozen from the first entry.
func (d *decoder) decodeCustomSection(name string, n *yaml.Node) CustomSection {
	sec := CustomSection{Name: name, Entries: []CustomEntry{}}
	d.eachItem(n, name, func(i int, item *yaml.Node) {
		path := fmt.Sprintf("%s[%d]", name, i)
		switch {
		case isNull(item):
			// skip empty items
		case item.Kind == yaml.ScalarNode:
			sec.Entries = append(sec.Entries, CustomEntry{Text: item.Value, IsText: true})
		case item.Kind == yaml.MappingNode:
			var rec Fields
			for j := 0; j+1 < len(item.Content); j += 2 {
				key := item.Content[j].Value
				v, ok := d.valueAt(deref(item.Content[j+1]), path+"."+key)
				if ok {
					rec = append(rec, Field{Key: key, Value: v})
				}
			}
			sec.Entries = append(sec.Entries, CustomEntry{Record: rec})
		default:
			d.addf(path, "expected a string or a flat mapping")
		}
	})
	if len(sec.Entries) > 0 && !sec.Entries[0].IsText {
		sec.Fields = sec.Entries[0].Record.Keys()
	}
	return sec
}
