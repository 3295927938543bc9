package ai

import (
	"testing"

	"resumake/internal/types"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no fences",
			in:   "name: Jane Doe\ntitle: Engineer",
			want: "name: Jane Doe\ntitle: Engineer",
		},
		{
			name: "yaml fences",
			in:   "```yaml\nname: Jane Doe\n```",
			want: "name: Jane Doe",
		},
		{
			name: "bare fences",
			in:   "```\nname: Jane Doe\n```",
			want: "name: Jane Doe",
		},
		{
			name: "json fence with surrounding whitespace",
			in:   "  ```json\n{\"score\": 80}\n```  \n",
			want: "{\"score\": 80}",
		},
		{
			name: "opening fence only",
			in:   "```yaml\nname: Jane Doe",
			want: "name: Jane Doe",
		},
		{
			name: "closing fence only",
			in:   "name: Jane Doe\n```",
			want: "name: Jane Doe",
		},
		{
			name: "fence marker alone",
			in:   "```",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"score": 75}`,
			want: `{"score": 75}`,
		},
		{
			name: "prose around object",
			in:   `Here is the analysis: {"score": 75, "summary": "ok"} Hope that helps!`,
			want: `{"score": 75, "summary": "ok"}`,
		},
		{
			name: "no braces",
			in:   "no json here",
			want: "",
		},
		{
			name: "closing before opening",
			in:   "} nothing {",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONResponse(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		var report types.ATSReport
		if !decodeJSONResponse(`{"score": 82, "summary": "solid match"}`, &report) {
			t.Fatal("decodeJSONResponse() = false")
		}
		if report.Score != 82 {
			t.Errorf("Score = %d, want 82", report.Score)
		}
	})

	t.Run("fenced json with prose", func(t *testing.T) {
		in := "Sure! Here you go:\n```json\n{\"score\": 60, \"summary\": \"partial\"}\n```"
		// Fences are not at the very start, so extraction does the work.
		var report types.ATSReport
		if !decodeJSONResponse(in, &report) {
			t.Fatal("decodeJSONResponse() = false")
		}
		if report.Score != 60 {
			t.Errorf("Score = %d, want 60", report.Score)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		var report types.ATSReport
		if decodeJSONResponse("the model refused to answer", &report) {
			t.Error("decodeJSONResponse() = true for garbage")
		}
	})
}

func TestDecodeYAMLResponse(t *testing.T) {
	in := "```yaml\nrecipient: Acme Corp\nsubject: Senior Engineer Application\nopening: I am writing to apply.\nbody: My experience fits.\nclosing: I look forward to hearing from you.\n```"

	var letter types.CoverLetter
	if err := decodeYAMLResponse(in, &letter); err != nil {
		t.Fatalf("decodeYAMLResponse() error = %v", err)
	}
	if letter.Recipient != "Acme Corp" {
		t.Errorf("Recipient = %q, want %q", letter.Recipient, "Acme Corp")
	}
	if letter.Subject != "Senior Engineer Application" {
		t.Errorf("Subject = %q", letter.Subject)
	}

	if err := decodeYAMLResponse("\t: not yaml [", &letter); err == nil {
		t.Error("decodeYAMLResponse() expected error for invalid YAML")
	}
}
