// Package render turns a validated CV document plus a resolved theme into
// styled output: a native word-processor document and a matching HTML page.
// Both faces share one section plan so their ordering can never drift.
package render

import (
	"resumake/internal/cv"
	"resumake/internal/theme"
)

// Section is one main-column section in render order. For user-defined
// sections Custom is non-nil and Key holds the source key.
type Section struct {
	Key    string
	Custom *cv.CustomSection
}

// sectionOrder is the fixed main-column order. Custom sections slot in
// after testimonials, references close the document.
var sectionOrder = []string{
	"profile",
	"experience",
	"education",
	"certifications",
	"publications",
	"volunteering",
	"testimonials",
}

// Plan computes the main-column section sequence for a document under the
// given layout. Sections absent or empty in the source are skipped, never
// rendered as bare headings. The academic layout promotes publications to
// directly after the profile.
func Plan(doc *cv.Document, layout theme.LayoutType) []Section {
	order := sectionOrder
	if layout == theme.LayoutAcademic {
		order = []string{
			"profile",
			"publications",
			"experience",
			"education",
			"certifications",
			"volunteering",
			"testimonials",
		}
	}

	plan := make([]Section, 0, len(order)+len(doc.Custom)+1)
	for _, key := range order {
		if doc.HasSection(key) {
			plan = append(plan, Section{Key: key})
		}
	}
	for i := range doc.Custom {
		if !doc.Custom[i].IsEmpty() {
			plan = append(plan, Section{Key: doc.Custom[i].Name, Custom: &doc.Custom[i]})
		}
	}
	if doc.HasSection("references") {
		plan = append(plan, Section{Key: "references"})
	}
	return plan
}
