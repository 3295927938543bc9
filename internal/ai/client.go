package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/types"
)

// Client implements Provider on top of a backend. It owns prompt selection,
// the circuit breaker, the retry policy, tracing and response parsing, so
// every provider behaves identically from the caller's side.
type Client struct {
	backend     backend
	prompts     Prompts
	breaker     *AICircuitBreaker
	logger      *errors.Logger
	timeout     time.Duration
	maxRetries  int
	temperature float32
}

// Ensure Client implements Provider
var _ Provider = (*Client)(nil)

func newClient(b backend, cfg config.AIConfig, logger *errors.Logger) *Client {
	return &Client{
		backend: b,
		prompts: Prompts{
			Translate:   resolvePrompt(cfg.Prompts.Translate.Resolve(), DefaultPrompts.Translate),
			Tailor:      resolvePrompt(cfg.Prompts.Tailor.Resolve(), DefaultPrompts.Tailor),
			CoverLetter: resolvePrompt(cfg.Prompts.CoverLetter.Resolve(), DefaultPrompts.CoverLetter),
			Suggest:     resolvePrompt(cfg.Prompts.Suggest.Resolve(), DefaultPrompts.Suggest),
			ATS:         resolvePrompt(cfg.Prompts.ATS.Resolve(), DefaultPrompts.ATS),
			Bio:         resolvePrompt(cfg.Prompts.Bio.Resolve(), DefaultPrompts.Bio),
			LinkedIn:    resolvePrompt(cfg.Prompts.LinkedIn.Resolve(), DefaultPrompts.LinkedIn),
		},
		breaker:     NewAICircuitBreaker(b.name(), cfg.CircuitBreaker, logger),
		logger:      logger,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
	}
}

// Name implements Provider.
func (c *Client) Name() string { return c.backend.name() }

// Model implements Provider.
func (c *Client) Model() string { return c.backend.model() }

// generate runs one model call with tracing, timeout, circuit breaker and
// retry wrapped around the backend.
func (c *Client) generate(ctx context.Context, operation, prompt string, maxTokens int) (completion, error) {
	tracer := otel.Tracer("resumake.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", c.backend.name()),
		attribute.String("ai.model", c.backend.model()),
		attribute.Float64("ai.temperature", float64(c.temperature)),
		attribute.Int("ai.prompt_length", len(prompt)),
	)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.breaker.Execute(func() (completion, error) {
		return c.executeWithRetry(ctx, operation, func() (completion, error) {
			return c.backend.complete(ctx, prompt, maxTokens)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if stderrors.Is(err, context.DeadlineExceeded) {
			return completion{}, errors.NewAIError(errors.ErrCodeAITimeout,
				"AI operation timed out for "+operation, err)
		}
		return completion{}, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operation, err)
	}

	if result.usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.usage.InputTokens),
			attribute.Int64("ai.tokens.output", result.usage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return result, nil
}

// Translate implements Provider. The returned YAML keeps the source keys.
func (c *Client) Translate(ctx context.Context, input types.TranslateInput) (string, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.Translate, LanguageName(input.Lang), input.CVYAML)
	result, err := c.generate(ctx, "translate", prompt, maxTokensLarge)
	if err != nil {
		return "", nil, err
	}
	return StripFences(result.text), result.usage, nil
}

// Tailor implements Provider. The returned YAML keeps every entry of the
// source CV, reordered for relevance.
func (c *Client) Tailor(ctx context.Context, input types.TailorInput) (string, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.Tailor, input.JobDescription, input.CVYAML)
	result, err := c.generate(ctx, "tailor", prompt, maxTokensLarge)
	if err != nil {
		return "", nil, err
	}
	return StripFences(result.text), result.usage, nil
}

// CoverLetter implements Provider.
func (c *Client) CoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetter, *types.TokenUsage, error) {
	job := input.JobDescription
	if input.Company != "" {
		job = "Company: " + input.Company + "\n\n" + job
	}
	prompt := fmt.Sprintf(c.prompts.CoverLetter, job, input.CVYAML)
	result, err := c.generate(ctx, "cover_letter", prompt, maxTokensSmall)
	if err != nil {
		return types.CoverLetter{}, nil, err
	}

	var letter types.CoverLetter
	if err := decodeYAMLResponse(result.text, &letter); err != nil {
		return types.CoverLetter{}, nil, errors.NewAIError("AI_RESPONSE_PARSE_FAILED",
			"Could not parse LLM response as YAML.", err)
	}
	if letter.Recipient == "" {
		letter.Recipient = "Hiring Manager"
	}
	return letter, result.usage, nil
}

// Suggest implements Provider. An unparseable response degrades to a report
// with general advice instead of failing the command.
func (c *Client) Suggest(ctx context.Context, cvYAML string) (types.SuggestReport, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.Suggest, cvYAML)
	result, err := c.generate(ctx, "suggest", prompt, maxTokensMedium)
	if err != nil {
		return types.SuggestReport{}, nil, err
	}

	var report types.SuggestReport
	if !decodeJSONResponse(result.text, &report) {
		report = types.SuggestReport{
			Suggestions: []types.Suggestion{},
			General:     []string{"Could not parse LLM response. Try again."},
		}
	}
	return report, result.usage, nil
}

// ScoreATS implements Provider. An unparseable response degrades to a zero
// score with an explanatory summary.
func (c *Client) ScoreATS(ctx context.Context, input types.ATSInput) (types.ATSReport, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.ATS, input.JobDescription, input.CVYAML)
	result, err := c.generate(ctx, "ats", prompt, maxTokensMedium)
	if err != nil {
		return types.ATSReport{}, nil, err
	}

	var report types.ATSReport
	if !decodeJSONResponse(result.text, &report) {
		report = types.ATSReport{
			MatchedKeywords: []string{},
			MissingKeywords: []string{},
			Suggestions:     []types.ATSSuggestion{},
			Summary:         "Could not parse analysis. Try again.",
		}
	}
	return report, result.usage, nil
}

// Bio implements Provider.
func (c *Client) Bio(ctx context.Context, cvYAML string) (types.Bio, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.Bio, cvYAML)
	result, err := c.generate(ctx, "bio", prompt, maxTokensMedium)
	if err != nil {
		return types.Bio{}, nil, err
	}

	var bio types.Bio
	if err := decodeYAMLResponse(result.text, &bio); err != nil {
		return types.Bio{}, nil, errors.NewAIError("AI_RESPONSE_PARSE_FAILED",
			"Could not parse LLM response as YAML.", err)
	}
	return bio, result.usage, nil
}

// ImportLinkedIn implements Provider.
func (c *Client) ImportLinkedIn(ctx context.Context, profileText string) (string, *types.TokenUsage, error) {
	prompt := fmt.Sprintf(c.prompts.LinkedIn, profileText)
	result, err := c.generate(ctx, "linkedin_import", prompt, maxTokensLarge)
	if err != nil {
		return "", nil, err
	}
	return StripFences(result.text), result.usage, nil
}

// CircuitBreakerStats implements Provider.
func (c *Client) CircuitBreakerStats() map[string]any {
	return c.breaker.GetStats()
}

// Close implements Provider.
func (c *Client) Close() error {
	return c.backend.close()
}
