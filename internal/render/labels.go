package render

import (
	"net/url"
	"strings"
)

// labelTables hold the output-language strings for section headings and
// sidebar labels. Unknown languages fall back to English.
var labelTables = map[string]map[string]string{
	"en": {
		"details":              "details",
		"nationality":          "Nationality",
		"links":                "Links",
		"skills":               "skills",
		"leadership_skills":    "Leadership Skills",
		"languages":            "Languages",
		"profile":              "Profile",
		"experience":           "Project / Employment History",
		"education":            "Education",
		"volunteering":         "Volunteering",
		"references":           "References",
		"certifications":       "Certifications",
		"publications":         "Publications",
		"testimonials":         "Testimonials",
		"testimonials_heading": "WHAT CLIENTS SAY:",
	},
	"de": {
		"details":              "Kontakt",
		"nationality":          "Nationalität",
		"links":                "Links",
		"skills":               "Kompetenzen",
		"leadership_skills":    "Führungskompetenzen",
		"languages":            "Sprachen",
		"profile":              "Profil",
		"experience":           "Projekt- / Berufserfahrung",
		"education":            "Ausbildung",
		"volunteering":         "Ehrenamt",
		"references":           "Referenzen",
		"certifications":       "Zertifizierungen",
		"publications":         "Publikationen",
		"testimonials":         "Empfehlungen",
		"testimonials_heading": "WAS KUNDEN SAGEN:",
	},
}

// Labels returns the label table for lang, defaulting to English.
func Labels(lang string) map[string]string {
	if table, ok := labelTables[strings.ToLower(lang)]; ok {
		return table
	}
	return labelTables["en"]
}

var levelTables = map[string]map[string]string{
	"en": {
		"native":       "Native",
		"fluent":       "Fluent",
		"professional": "Professional",
		"basic":        "Basic",
	},
	"de": {
		"native":       "Muttersprache",
		"fluent":       "Fließend",
		"professional": "Verhandlungssicher",
		"basic":        "Grundkenntnisse",
	},
}

// LevelLabel maps a language proficiency level to its display form.
// Unrecognized levels pass through unchanged.
func LevelLabel(lang, level string) string {
	table, ok := levelTables[strings.ToLower(lang)]
	if !ok {
		table = levelTables["en"]
	}
	if label, ok := table[strings.ToLower(level)]; ok {
		return label
	}
	return level
}

// Contact and link icon glyphs. Lookup is by field name or link label;
// anything unrecognized gets the generic link glyph, never an error.
var glyphTable = []struct {
	key   string
	glyph string
}{
	{"email", "✉"},
	{"phone", "☎"},
	{"address", "⌂"},
	{"nationality", "⚑"},
	{"github", "⌨"},
	{"gitlab", "⌨"},
	{"linkedin", "⚯"},
	{"xing", "⚯"},
	{"website", "🌐"},
	{"portfolio", "🌐"},
	{"blog", "✎"},
}

const genericLinkGlyph = "🔗"

// Glyph selects the icon for a contact field name or link label.
func Glyph(name string) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range glyphTable {
		if needle == entry.key {
			return entry.glyph
		}
	}
	for _, entry := range glyphTable {
		if strings.Contains(needle, entry.key) {
			return entry.glyph
		}
	}
	return genericLinkGlyph
}

// FormatRange joins a start/end pair the way entry dates are displayed.
// A single populated side is returned alone, without a dangling separator,
// and both sides empty yields "" so callers can skip the line entirely.
func FormatRange(start, end string) string {
	switch {
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " — " + end
}

// ValidURL reports whether s is an absolute http(s) URL. Anything else is
// rendered as plain text instead of a hyperlink.
func ValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
