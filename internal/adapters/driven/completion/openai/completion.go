// Package openai provides a completion adapter for OpenAI-compatible APIs:
// OpenAI itself, Groq and Mistral.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure CompletionProvider implements the interface.
var _ driven.CompletionProvider = (*CompletionProvider)(nil)

// Default configuration values.
const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 180 * time.Second
)

// Config holds configuration for the completion adapter.
type Config struct {
	// Provider names the backend in errors (default: openai).
	Provider string

	// APIKey is the API key (required).
	APIKey string

	// BaseURL selects the backend, e.g. openaicompat.GroqBaseURL.
	BaseURL string

	// Model is the chat model (default: gpt-4o-mini).
	Model string

	// Temperature is sent when non-zero.
	Temperature float64

	// MaxTokens is sent when non-zero.
	MaxTokens int

	// Timeout is the request timeout (default: 180s).
	Timeout time.Duration
}

// CompletionProvider generates answers through the chat completions API.
type CompletionProvider struct {
	client      *goopenai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
}

// NewCompletionProvider creates a new OpenAI-compatible completion adapter.
func NewCompletionProvider(cfg Config) (*CompletionProvider, error) {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Provider)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &CompletionProvider{
		client:      openaicompat.NewClient(cfg.APIKey, cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}),
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends prompt as a single user message.
// The returned model ID is the one the backend reports.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string) (string, string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", "", openaicompat.Classify(p.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", "", apierr.Malformed(p.provider, "no choices returned")
	}

	modelID := resp.Model
	if modelID == "" {
		modelID = p.model
	}
	return resp.Choices[0].Message.Content, modelID, nil
}

// ModelName returns the configured model.
func (p *CompletionProvider) ModelName() string {
	return p.model
}

// Ping lists models, which validates the key without running inference.
func (p *CompletionProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return openaicompat.Classify(p.provider, err)
	}
	return nil
}

// Close releases resources.
func (p *CompletionProvider) Close() error {
	return nil
}
