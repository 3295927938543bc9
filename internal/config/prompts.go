package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptSetting overrides the builtin prompt for one AI operation. File
// content takes precedence over inline text; an empty setting keeps the
// builtin prompt.
type PromptSetting struct {
	Text string `mapstructure:"text"`
	File string `mapstructure:"file"`

	loaded string // file content, read once at config load
}

// PromptOverrides holds per-operation prompt overrides.
type PromptOverrides struct {
	Translate   PromptSetting `mapstructure:"translate"`
	Tailor      PromptSetting `mapstructure:"tailor"`
	CoverLetter PromptSetting `mapstructure:"coverLetter"`
	Suggest     PromptSetting `mapstructure:"suggest"`
	ATS         PromptSetting `mapstructure:"ats"`
	Bio         PromptSetting `mapstructure:"bio"`
	LinkedIn    PromptSetting `mapstructure:"linkedin"`
}

// Resolve returns the override text, or "" when the builtin prompt applies.
func (p PromptSetting) Resolve() string {
	if p.loaded != "" {
		return p.loaded
	}
	return strings.TrimSpace(p.Text)
}

// loadPromptFiles reads every configured prompt file. All files are checked
// so a broken configuration reports every problem at once.
func (c *Config) loadPromptFiles() error {
	settings := map[string]*PromptSetting{
		"translate":   &c.AI.Prompts.Translate,
		"tailor":      &c.AI.Prompts.Tailor,
		"coverLetter": &c.AI.Prompts.CoverLetter,
		"suggest":     &c.AI.Prompts.Suggest,
		"ats":         &c.AI.Prompts.ATS,
		"bio":         &c.AI.Prompts.Bio,
		"linkedin":    &c.AI.Prompts.LinkedIn,
	}

	var problems []string
	for op, setting := range settings {
		if setting.File == "" {
			continue
		}
		content, err := loadPromptFromFile(setting.File)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", op, err))
			continue
		}
		setting.loaded = content
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

// loadPromptFromFile loads and validates a single prompt file.
func loadPromptFromFile(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("prompt file not accessible %q: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("prompt path is a directory, not a file: %q", absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %q: %w", absPath, err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", fmt.Errorf("prompt file is empty: %q", absPath)
	}
	return text, nil
}
