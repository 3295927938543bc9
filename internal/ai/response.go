package ai

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// StripFences removes surrounding markdown code fences from model output.
// Models add them despite instructions often enough that every response goes
// through here.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}
	if strings.HasSuffix(text, "```") {
		if i := strings.LastIndex(text, "\n"); i >= 0 {
			text = text[:i]
		} else {
			text = ""
		}
	}
	return strings.TrimSpace(text)
}

// ExtractJSON returns the first top-level JSON object embedded in text,
// stripping any prose around it. Returns "" when no braces are found.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// decodeJSONResponse decodes a model response into out, tolerating code
// fences and prose around the JSON object. Reports whether anything
// decodable was found.
func decodeJSONResponse(text string, out any) bool {
	clean := StripFences(text)
	if json.Unmarshal([]byte(clean), out) == nil {
		return true
	}
	if extracted := ExtractJSON(clean); extracted != "" {
		if json.Unmarshal([]byte(extracted), out) == nil {
			return true
		}
	}
	return false
}

// decodeYAMLResponse decodes a model response into out after fence removal.
func decodeYAMLResponse(text string, out any) error {
	return yaml.Unmarshal([]byte(StripFences(text)), out)
}
