package render

import "testing"

func TestLabelsFallBackToEnglish(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		key      string
		expected string
	}{
		{name: "english experience", lang: "en", key: "experience", expected: "Project / Employment History"},
		{name: "german experience", lang: "de", key: "experience", expected: "Projekt- / Berufserfahrung"},
		{name: "german details", lang: "de", key: "details", expected: "Kontakt"},
		{name: "unknown language falls back", lang: "fr", key: "education", expected: "Education"},
		{name: "case insensitive", lang: "DE", key: "skills", expected: "Kompetenzen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Labels(tt.lang)[tt.key]; got != tt.expected {
				t.Errorf("Labels(%q)[%q] = %q, want %q", tt.lang, tt.key, got, tt.expected)
			}
		})
	}
}

func TestLevelLabel(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		level    string
		expected string
	}{
		{name: "english fluent", lang: "en", level: "fluent", expected: "Fluent"},
		{name: "german native", lang: "de", level: "native", expected: "Muttersprache"},
		{name: "german professional", lang: "de", level: "professional", expected: "Verhandlungssicher"},
		{name: "unknown level passes through", lang: "en", level: "conversational", expected: "conversational"},
		{name: "unknown language uses english", lang: "es", level: "basic", expected: "Basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelLabel(tt.lang, tt.level); got != tt.expected {
				t.Errorf("LevelLabel(%q, %q) = %q, want %q", tt.lang, tt.level, got, tt.expected)
			}
		})
	}
}

func TestGlyphNeverFails(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "email", input: "email", expected: "✉"},
		{name: "phone", input: "phone", expected: "☎"},
		{name: "github exact", input: "github", expected: "⌨"},
		{name: "github inside label", input: "My GitHub Profile", expected: "⌨"},
		{name: "website", input: "website", expected: "🌐"},
		{name: "unknown label gets generic glyph", input: "Dribbble", expected: genericLinkGlyph},
		{name: "empty label gets generic glyph", input: "", expected: genericLinkGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Glyph(tt.input); got != tt.expected {
				t.Errorf("Glyph(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected string
	}{
		{name: "both sides", start: "2020", end: "2023", expected: "2020 — 2023"},
		{name: "start only", start: "2020", end: "", expected: "2020"},
		{name: "end only", start: "", end: "2023", expected: "2023"},
		{name: "both empty", start: "", end: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRange(tt.start, tt.end); got != tt.expected {
				t.Errorf("FormatRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "https", url: "https://github.com/janedoe", expected: true},
		{name: "http", url: "http://example.com", expected: true},
		{name: "missing scheme", url: "example.com/profile", expected: false},
		{name: "mail address", url: "jane@example.com", expected: false},
		{name: "other scheme", url: "ftp://example.com", expected: false},
		{name: "scheme without host", url: "https://", expected: false},
		{name: "empty", url: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidURL(tt.url); got != tt.expected {
				t.Errorf("ValidURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}
