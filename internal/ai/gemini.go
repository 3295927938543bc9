package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiBackend talks to the Google Gemini API. Responses come back as plain
// text because the shared prompts already pin down the output shape, and
// several operations want YAML rather than JSON.
type geminiBackend struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func newGeminiBackend(ctx context.Context, cfg config.AIConfig, apiKey string) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiBackend{
		client:      client,
		modelName:   model,
		temperature: cfg.Temperature,
	}, nil
}

func (b *geminiBackend) name() string  { return config.ProviderGemini }
func (b *geminiBackend) model() string { return b.modelName }

func (b *geminiBackend) complete(ctx context.Context, prompt string, maxTokens int) (completion, error) {
	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if b.temperature > 0 {
		temperature := b.temperature
		genConfig.Temperature = &temperature
	}

	result, err := b.client.Models.GenerateContent(ctx, b.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return completion{}, err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return completion{}, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Gemini returned an empty response", nil)
	}
	return completion{text: text, usage: extractGeminiUsage(result)}, nil
}

func (b *geminiBackend) close() error {
	// The genai client holds no connection state in single-shot usage.
	return nil
}

// extractGeminiUsage extracts token usage information from a Gemini API
// response.
func extractGeminiUsage(result *genai.GenerateContentResponse) *types.TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &types.TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
