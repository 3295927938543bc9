package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/types"
)

const (
	defaultOpenAIModel   = "gpt-4o"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// openaiBackend talks to the OpenAI chat completions API. A baseURL override
// points it at any OpenAI-compatible endpoint (Ollama, LiteLLM, vLLM).
type openaiBackend struct {
	apiKey      string
	modelName   string
	baseURL     string
	temperature float32
	httpClient  *http.Client
}

// httpStatusError is a non-2xx response from an OpenAI-compatible endpoint.
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

func newOpenAIBackend(cfg config.AIConfig, apiKey string) *openaiBackend {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openaiBackend{
		apiKey:      apiKey,
		modelName:   model,
		baseURL:     baseURL,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *openaiBackend) name() string  { return config.ProviderOpenAI }
func (b *openaiBackend) model() string { return b.modelName }

func (b *openaiBackend) complete(ctx context.Context, prompt string, maxTokens int) (completion, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       b.modelName,
		MaxTokens:   maxTokens,
		Temperature: b.temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return completion{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return completion{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return completion{}, &httpStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return completion{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return completion{}, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"OpenAI returned an empty response", nil)
	}

	usage := &types.TokenUsage{
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
		TotalTokens:  parsed.Usage.TotalTokens,
	}
	return completion{
		text:  strings.TrimSpace(parsed.Choices[0].Message.Content),
		usage: usage,
	}, nil
}

func (b *openaiBackend) close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}
