// Package formatters turns AI report types into json, text or markdown for
// CLI output. The document exporters live in internal/export; this registry
// only covers the report shapes of the AI commands (suggest, ats,
// cover-letter, bio).
package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumake/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "SuggestReport", &SuggestTextFormatter{})
	registry.RegisterFormatter("markdown", "SuggestReport", &SuggestMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ATSTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ATSMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetter", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetter", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "Bio", &BioTextFormatter{})
	registry.RegisterFormatter("markdown", "Bio", &BioMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.SuggestReport:
		return "SuggestReport"
	case types.ATSReport:
		return "ATSReport"
	case types.CoverLetter:
		return "CoverLetter"
	case types.Bio:
		return "Bio"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// SuggestTextFormatter handles text formatting for improvement reports
type SuggestTextFormatter struct{}

func (stf *SuggestTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SuggestReport)
	if !ok {
		return "", fmt.Errorf("expected SuggestReport, got %T", data)
	}

	var output strings.Builder

	if len(report.Suggestions) == 0 && len(report.General) == 0 {
		output.WriteString("Your CV looks great! No suggestions at this time.\n")
		return output.String(), nil
	}

	if len(report.Suggestions) > 0 {
		output.WriteString(fmt.Sprintf("=== SPECIFIC SUGGESTIONS (%d) ===\n\n", len(report.Suggestions)))
		for i, s := range report.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s]\n", i+1, s.Section))
			if s.Original != "" {
				output.WriteString(fmt.Sprintf("   - %s\n", s.Original))
			}
			if s.Suggested != "" {
				output.WriteString(fmt.Sprintf("   + %s\n", s.Suggested))
			}
			if s.Reason != "" {
				output.WriteString(fmt.Sprintf("   (%s)\n", s.Reason))
			}
			output.WriteString("\n")
		}
	}

	if len(report.General) > 0 {
		output.WriteString("=== GENERAL ADVICE ===\n\n")
		for _, advice := range report.General {
			output.WriteString(fmt.Sprintf("- %s\n", advice))
		}
	}

	return output.String(), nil
}

func (stf *SuggestTextFormatter) SupportedType() string {
	return "SuggestReport"
}

// SuggestMarkdownFormatter handles markdown formatting for improvement reports
type SuggestMarkdownFormatter struct{}

func (smf *SuggestMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SuggestReport)
	if !ok {
		return "", fmt.Errorf("expected SuggestReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# CV Improvement Suggestions\n\n")

	if len(report.Suggestions) == 0 && len(report.General) == 0 {
		output.WriteString("Your CV looks great! No suggestions at this time.\n")
		return output.String(), nil
	}

	if len(report.Suggestions) > 0 {
		output.WriteString(fmt.Sprintf("## Specific Suggestions (%d)\n\n", len(report.Suggestions)))
		for i, s := range report.Suggestions {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, s.Section))
			if s.Original != "" {
				output.WriteString(fmt.Sprintf("**Original:** %s\n\n", s.Original))
			}
			if s.Suggested != "" {
				output.WriteString(fmt.Sprintf("**Suggested:** %s\n\n", s.Suggested))
			}
			if s.Reason != "" {
				output.WriteString(fmt.Sprintf("*%s*\n\n", s.Reason))
			}
		}
	}

	if len(report.General) > 0 {
		output.WriteString("## General Advice\n\n")
		for _, advice := range report.General {
			output.WriteString(fmt.Sprintf("- %s\n", advice))
		}
	}

	return output.String(), nil
}

func (smf *SuggestMarkdownFormatter) SupportedType() string {
	return "SuggestReport"
}

// ATSTextFormatter handles text formatting for ATS match reports
type ATSTextFormatter struct{}

func (atf *ATSTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS MATCH REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", report.Score))

	if report.Summary != "" {
		output.WriteString(report.Summary)
		output.WriteString("\n\n")
	}

	if len(report.MatchedKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Matched keywords (%d):\n", len(report.MatchedKeywords)))
		output.WriteString("  " + strings.Join(report.MatchedKeywords, ", ") + "\n\n")
	}

	if len(report.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing keywords (%d):\n", len(report.MissingKeywords)))
		output.WriteString("  " + strings.Join(report.MissingKeywords, ", ") + "\n\n")
	}

	if len(report.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for _, s := range report.Suggestions {
			output.WriteString(fmt.Sprintf("- %s (add to %s): %s\n", s.Keyword, s.WhereToAdd, s.Phrasing))
		}
	}

	return output.String(), nil
}

func (atf *ATSTextFormatter) SupportedType() string {
	return "ATSReport"
}

// ATSMarkdownFormatter handles markdown formatting for ATS match reports
type ATSMarkdownFormatter struct{}

func (amf *ATSMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Match Report\n\n")
	output.WriteString(fmt.Sprintf("**Score: %d/100**\n\n", report.Score))

	if report.Summary != "" {
		output.WriteString(report.Summary)
		output.WriteString("\n\n")
	}

	if len(report.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		for _, kw := range report.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(report.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, kw := range report.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(report.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		output.WriteString("| Keyword | Where to add | Phrasing |\n")
		output.WriteString("|---------|--------------|----------|\n")
		for _, s := range report.Suggestions {
			output.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Keyword, s.WhereToAdd, s.Phrasing))
		}
	}

	return output.String(), nil
}

func (amf *ATSMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

// CoverLetterTextFormatter handles text formatting for cover letters
type CoverLetterTextFormatter struct{}

func (ctf *CoverLetterTextFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("Dear %s,\n\n", letter.Recipient))
	if letter.Subject != "" {
		output.WriteString(fmt.Sprintf("Re: %s\n\n", letter.Subject))
	}
	for _, paragraph := range []string{letter.Opening, letter.Body, letter.Closing} {
		if paragraph != "" {
			output.WriteString(paragraph)
			output.WriteString("\n\n")
		}
	}
	output.WriteString("Sincerely,\n")

	return output.String(), nil
}

func (ctf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetter"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letters
type CoverLetterMarkdownFormatter struct{}

func (cmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}

	var output strings.Builder

	if letter.Subject != "" {
		output.WriteString(fmt.Sprintf("# %s\n\n", letter.Subject))
	}
	output.WriteString(fmt.Sprintf("Dear %s,\n\n", letter.Recipient))
	for _, paragraph := range []string{letter.Opening, letter.Body, letter.Closing} {
		if paragraph != "" {
			output.WriteString(paragraph)
			output.WriteString("\n\n")
		}
	}
	output.WriteString("Sincerely,\n")

	return output.String(), nil
}

func (cmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetter"
}

// BioTextFormatter handles text formatting for condensed bios
type BioTextFormatter struct{}

func (btf *BioTextFormatter) Format(data any) (string, error) {
	bio, ok := data.(types.Bio)
	if !ok {
		return "", fmt.Errorf("expected Bio, got %T", data)
	}

	var output strings.Builder

	output.WriteString(bio.Name)
	if bio.Title != "" {
		output.WriteString(" - " + bio.Title)
	}
	output.WriteString("\n\n")
	if bio.BioSummary != "" {
		output.WriteString(bio.BioSummary)
		output.WriteString("\n\n")
	}

	if len(bio.CareerHighlights) > 0 {
		output.WriteString("Key achievements:\n")
		for _, h := range bio.CareerHighlights {
			output.WriteString(fmt.Sprintf("- %s\n", h))
		}
		output.WriteString("\n")
	}

	if len(bio.CurrentRoles) > 0 {
		output.WriteString("Recent experience:\n")
		for _, role := range bio.CurrentRoles {
			output.WriteString(fmt.Sprintf("- %s, %s (%s)\n", role.Title, role.Org, role.Period))
		}
		output.WriteString("\n")
	}

	if len(bio.Education) > 0 {
		output.WriteString("Education:\n")
		for _, edu := range bio.Education {
			output.WriteString(fmt.Sprintf("- %s\n", edu))
		}
		output.WriteString("\n")
	}

	if bio.SkillsSummary != "" {
		output.WriteString("Core competencies: " + bio.SkillsSummary + "\n")
	}

	return output.String(), nil
}

func (btf *BioTextFormatter) SupportedType() string {
	return "Bio"
}

// BioMarkdownFormatter handles markdown formatting for condensed bios
type BioMarkdownFormatter struct{}

func (bmf *BioMarkdownFormatter) Format(data any) (string, error) {
	bio, ok := data.(types.Bio)
	if !ok {
		return "", fmt.Errorf("expected Bio, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", bio.Name))
	if bio.Title != "" {
		output.WriteString(fmt.Sprintf("**%s**\n\n", bio.Title))
	}
	if bio.BioSummary != "" {
		output.WriteString(bio.BioSummary)
		output.WriteString("\n\n")
	}

	if len(bio.CareerHighlights) > 0 {
		output.WriteString("## Key Achievements\n\n")
		for _, h := range bio.CareerHighlights {
			output.WriteString(fmt.Sprintf("- %s\n", h))
		}
		output.WriteString("\n")
	}

	if len(bio.CurrentRoles) > 0 {
		output.WriteString("## Recent Experience\n\n")
		for _, role := range bio.CurrentRoles {
			output.WriteString(fmt.Sprintf("- **%s** — %s (*%s*)\n", role.Title, role.Org, role.Period))
		}
		output.WriteString("\n")
	}

	if len(bio.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range bio.Education {
			output.WriteString(fmt.Sprintf("- %s\n", edu))
		}
		output.WriteString("\n")
	}

	if bio.SkillsSummary != "" {
		output.WriteString("## Core Competencies\n\n")
		output.WriteString(bio.SkillsSummary + "\n")
	}

	if len(bio.Links) > 0 {
		output.WriteString("\n")
		for i, link := range bio.Links {
			if i > 0 {
				output.WriteString(" | ")
			}
			output.WriteString(fmt.Sprintf("[%s](%s)", link.Label, link.URL))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (bmf *BioMarkdownFormatter) SupportedType() string {
	return "Bio"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
