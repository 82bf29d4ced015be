// Package anthropic provides a completion adapter using the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure CompletionProvider implements the interface.
var _ driven.CompletionProvider = (*CompletionProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultMaxTokens = 2048
	DefaultTimeout   = 180 * time.Second

	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic completion adapter.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Temperature is sent when non-zero.
	Temperature float64

	// MaxTokens is required by the API (default: 2048).
	MaxTokens int

	// Timeout is the request timeout (default: 180s).
	Timeout time.Duration
}

// CompletionProvider generates answers using Anthropic.
type CompletionProvider struct {
	client      *httpapi.Client
	model       string
	temperature float64
	maxTokens   int
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewCompletionProvider creates a new Anthropic completion adapter.
func NewCompletionProvider(cfg Config) (*CompletionProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &CompletionProvider{
		client: httpapi.New("anthropic", cfg.BaseURL, cfg.Timeout, map[string]string{
			"x-api-key":         cfg.APIKey,
			"anthropic-version": anthropicVersion,
		}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends prompt as a single user message and joins the text blocks.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string) (string, string, error) {
	req := messagesRequest{
		Model:       p.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	var resp messagesResponse
	if err := p.client.PostJSON(ctx, "/v1/messages", req, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Content) == 0 {
		return "", "", apierr.Malformed("anthropic", "no response content returned")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	modelID := resp.Model
	if modelID == "" {
		modelID = p.model
	}
	return text.String(), modelID, nil
}

// ModelName returns the configured model.
func (p *CompletionProvider) ModelName() string {
	return p.model
}

// Ping checks /v1/models, which validates the key without running inference.
func (p *CompletionProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/v1/models", nil)
}

// Close releases resources.
func (p *CompletionProvider) Close() error {
	return nil
}
