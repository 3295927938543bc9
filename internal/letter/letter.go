// Package letter turns an AI-drafted cover letter into files on disk: a
// YAML draft the user can edit and a themed word-processor document.
package letter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/render"
	"resumake/internal/theme"
	"resumake/internal/types"
)

// Provider drafts a cover letter from a CV and a job description.
type Provider interface {
	CoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetter, *types.TokenUsage, error)
}

// Writer generates cover letters and persists them next to the other
// build artifacts.
type Writer struct {
	provider Provider
	logger   *errors.Logger
}

func New(provider Provider, logger *errors.Logger) *Writer {
	return &Writer{provider: provider, logger: logger}
}

// Draft asks the provider for a letter. The company override, when set,
// becomes the recipient regardless of what the model returns.
func (w *Writer) Draft(ctx context.Context, doc *cv.Document, jobDescription, company string) (*types.CoverLetter, *types.TokenUsage, error) {
	if w.provider == nil {
		return nil, nil, errors.NewAIError(errors.ErrCodeMissingAPIKey,
			"cover letter generation needs an LLM provider, set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY", nil)
	}
	srcYAML, err := cv.ToYAML(doc)
	if err != nil {
		return nil, nil, err
	}
	letter, usage, err := w.provider.CoverLetter(ctx, types.CoverLetterInput{
		CVYAML:         string(srcYAML),
		JobDescription: jobDescription,
		Company:        company,
	})
	if err != nil {
		return nil, usage, err
	}
	if company != "" {
		letter.Recipient = company
	}
	if letter.Recipient == "" {
		letter.Recipient = "Hiring Manager"
	}
	return &letter, usage, nil
}

// Filename is the conventional output name: {Slug}_Cover_Letter_{LANG}.docx.
func Filename(doc *cv.Document, lang string) string {
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("%s_Cover_Letter_%s.docx", doc.Slug(), strings.ToUpper(lang))
}

// SaveYAML writes the editable draft beside the rendered document.
func SaveYAML(letter *types.CoverLetter, path string) error {
	data, err := yaml.Marshal(letter)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "cannot encode cover letter draft", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot create output directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot write cover letter draft", err)
	}
	return nil
}

// LoadYAML reads a previously saved draft, e.g. after manual edits.
func LoadYAML(path string) (*types.CoverLetter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("cannot read cover letter draft %s", path), err)
	}
	var letter types.CoverLetter
	if err := yaml.Unmarshal(data, &letter); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, "cover letter draft is not valid YAML", err)
	}
	return &letter, nil
}

// Render produces the themed document for a drafted letter.
func Render(doc *cv.Document, letter *types.CoverLetter, th *theme.Theme, lang string) ([]byte, error) {
	return render.BuildLetter(doc, *letter, th, render.Options{Lang: lang})
}
