// Package ai implements the LLM-backed operations: translation, tailoring,
// cover letter generation, content suggestions, ATS scoring, bio
// condensation and LinkedIn import. One prompt set serves every provider;
// the per-provider backends only move text.
package ai

import (
	"context"
	"fmt"

	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/types"
)

// Provider is the LLM surface consumed by the commands and the editor
// server. Implementations are safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier, e.g. "anthropic".
	Name() string
	// Model returns the model in use.
	Model() string

	// Translate renders the CV YAML into the target language, preserving
	// structure and keys.
	Translate(ctx context.Context, input types.TranslateInput) (string, *types.TokenUsage, error)
	// Tailor reorders and rephrases the CV YAML to foreground content
	// relevant to a job description.
	Tailor(ctx context.Context, input types.TailorInput) (string, *types.TokenUsage, error)
	// CoverLetter writes a letter connecting the CV to a job description.
	CoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetter, *types.TokenUsage, error)
	// Suggest reviews the CV and proposes concrete text improvements.
	Suggest(ctx context.Context, cvYAML string) (types.SuggestReport, *types.TokenUsage, error)
	// ScoreATS scores CV keyword coverage against a job description.
	ScoreATS(ctx context.Context, input types.ATSInput) (types.ATSReport, *types.TokenUsage, error)
	// Bio condenses the CV into a one-pager bio.
	Bio(ctx context.Context, cvYAML string) (types.Bio, *types.TokenUsage, error)
	// ImportLinkedIn structures exported LinkedIn profile text as CV YAML.
	ImportLinkedIn(ctx context.Context, profileText string) (string, *types.TokenUsage, error)

	// CircuitBreakerStats reports breaker health for the status endpoint.
	CircuitBreakerStats() map[string]any

	Close() error
}

// New constructs the configured provider. Without an explicit provider
// setting the environment decides: ANTHROPIC_API_KEY first, then
// OPENAI_API_KEY, then GEMINI_API_KEY.
func New(ctx context.Context, cfg *config.Config, logger *errors.Logger) (Provider, error) {
	name := cfg.ResolveAIProvider()
	if name == "" {
		return nil, errors.NewAIError(errors.ErrCodeMissingAPIKey,
			"No LLM provider configured. Set ANTHROPIC_API_KEY, OPENAI_API_KEY, or GEMINI_API_KEY.", nil)
	}
	apiKey := cfg.AIAPIKey(name)
	if apiKey == "" {
		return nil, errors.NewAIError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("No API key found for AI provider %q.", name), nil)
	}

	var (
		b   backend
		err error
	)
	switch name {
	case config.ProviderAnthropic:
		b = newAnthropicBackend(cfg.AI, apiKey)
	case config.ProviderOpenAI:
		b = newOpenAIBackend(cfg.AI, apiKey)
	case config.ProviderGemini:
		b, err = newGeminiBackend(ctx, cfg.AI, apiKey)
	default:
		err = errors.NewAIError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Unknown AI provider %q", name), nil)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("AI provider ready", "provider", b.name(), "model", b.model())
	return newClient(b, cfg.AI, logger), nil
}
