// Package linkedin turns exported LinkedIn profile text into a CV
// document via the LLM provider.
package linkedin

import (
	"context"
	"strings"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/types"
)

// Provider structures free-form profile text as CV YAML.
type Provider interface {
	ImportLinkedIn(ctx context.Context, profileText string) (string, *types.TokenUsage, error)
}

// Import converts the pasted or exported profile text into a validated
// document. The model's output must parse as a CV, anything else is
// reported as a provider failure.
func Import(ctx context.Context, provider Provider, profileText string) (*cv.Document, *types.TokenUsage, error) {
	if provider == nil {
		return nil, nil, errors.NewAIError(errors.ErrCodeMissingAPIKey,
			"LinkedIn import needs an LLM provider, set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY", nil)
	}
	profileText = strings.TrimSpace(profileText)
	if profileText == "" {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"profile text is empty", nil)
	}

	yamlText, usage, err := provider.ImportLinkedIn(ctx, profileText)
	if err != nil {
		return nil, usage, err
	}
	doc, err := cv.Parse([]byte(yamlText))
	if err != nil {
		return nil, usage, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"provider returned an invalid CV document, re-run the import or edit the profile text", err)
	}
	return doc, usage, nil
}
