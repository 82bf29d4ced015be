// Package cohere provides a completion adapter using the Cohere chat API.
package cohere

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure CompletionProvider implements the interface.
var _ driven.CompletionProvider = (*CompletionProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.ai"
	DefaultModel   = "command-r7b-12-2024"
	DefaultTimeout = 180 * time.Second
)

// Config holds configuration for the Cohere completion adapter.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// CompletionProvider generates answers using Cohere's /v1/chat.
type CompletionProvider struct {
	client      *httpapi.Client
	model       string
	temperature float64
	maxTokens   int
}

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Text         string `json:"text"`
	GenerationID string `json:"generation_id"`
	FinishReason string `json:"finish_reason"`
}

// NewCompletionProvider creates a new Cohere completion adapter.
func NewCompletionProvider(cfg Config) (*CompletionProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &CompletionProvider{
		client: httpapi.New("cohere", cfg.BaseURL, cfg.Timeout, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends prompt as the chat message.
// Cohere does not echo the model, so the configured name is returned.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string) (string, string, error) {
	req := chatRequest{
		Model:       p.model,
		Message:     prompt,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	var resp chatResponse
	if err := p.client.PostJSON(ctx, "/v1/chat", req, &resp); err != nil {
		return "", "", err
	}
	return resp.Text, p.model, nil
}

// ModelName returns the configured model.
func (p *CompletionProvider) ModelName() string {
	return p.model
}

// Ping lists models to validate the key.
func (p *CompletionProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/v1/models?page_size=1", nil)
}

// Close releases resources.
func (p *CompletionProvider) Close() error {
	return nil
}
