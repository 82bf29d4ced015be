// Package ollama provides a completion adapter using a local Ollama server.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure CompletionProvider implements the interface.
var _ driven.CompletionProvider = (*CompletionProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 300 * time.Second
)

// Config holds configuration for the Ollama completion adapter.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Temperature is sent when non-zero.
	Temperature float64

	// MaxTokens maps to num_predict when non-zero.
	MaxTokens int

	// Timeout is the request timeout (default: 300s). Local models are slow.
	Timeout time.Duration
}

// CompletionProvider generates answers using Ollama's /api/chat.
type CompletionProvider struct {
	client *httpapi.Client
	model  string
	opts   *options
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewCompletionProvider creates a new Ollama completion adapter.
func NewCompletionProvider(cfg Config) *CompletionProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var opts *options
	if cfg.Temperature != 0 || cfg.MaxTokens != 0 {
		opts = &options{Temperature: cfg.Temperature, NumPredict: cfg.MaxTokens}
	}

	return &CompletionProvider{
		client: httpapi.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model:  cfg.Model,
		opts:   opts,
	}
}

// Complete sends prompt as a single user message without streaming.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string) (string, string, error) {
	req := chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Options:  p.opts,
	}

	var resp chatResponse
	if err := p.client.PostJSON(ctx, "/api/chat", req, &resp); err != nil {
		return "", "", err
	}

	modelID := resp.Model
	if modelID == "" {
		modelID = p.model
	}
	return resp.Message.Content, modelID, nil
}

// ModelName returns the configured model.
func (p *CompletionProvider) ModelName() string {
	return p.model
}

// Ping checks the /api/tags endpoint without running inference.
func (p *CompletionProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/api/tags", nil)
}

// Close releases resources.
func (p *CompletionProvider) Close() error {
	return nil
}
