package ai

import (
	"context"

	"resumake/internal/types"
)

// completion is one raw model response.
type completion struct {
	text  string
	usage *types.TokenUsage
}

// backend is a minimal text-in, text-out LLM client for one provider.
// Prompt construction, retry, breaker policy and response parsing live in
// Client so the backends stay thin.
type backend interface {
	name() string
	model() string
	complete(ctx context.Context, prompt string, maxTokens int) (completion, error)
	close() error
}
