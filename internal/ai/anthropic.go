package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/types"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// anthropicBackend talks to the Anthropic Messages API.
type anthropicBackend struct {
	client      anthropic.Client
	modelName   string
	temperature float64
}

func newAnthropicBackend(cfg config.AIConfig, apiKey string) *anthropicBackend {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicBackend{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName:   model,
		temperature: float64(cfg.Temperature),
	}
}

func (b *anthropicBackend) name() string  { return config.ProviderAnthropic }
func (b *anthropicBackend) model() string { return b.modelName }

func (b *anthropicBackend) complete(ctx context.Context, prompt string, maxTokens int) (completion, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.modelName),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(b.temperature),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					{OfText: &anthropic.TextBlockParam{Text: prompt}},
				},
			},
		},
	})
	if err != nil {
		return completion{}, err
	}
	if len(message.Content) == 0 {
		return completion{}, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Anthropic returned an empty response", nil)
	}

	usage := &types.TokenUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
		TotalTokens:  message.Usage.InputTokens + message.Usage.OutputTokens,
	}
	return completion{
		text:  strings.TrimSpace(message.Content[0].AsText().Text),
		usage: usage,
	}, nil
}

func (b *anthropicBackend) close() error { return nil }
