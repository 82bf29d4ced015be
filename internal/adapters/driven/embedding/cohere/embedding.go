// Package cohere provides an embedding adapter using the Cohere API.
package cohere

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure EmbeddingProvider implements the interface.
var _ driven.EmbeddingProvider = (*EmbeddingProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.cohere.ai"
	DefaultModel     = "embed-multilingual-v3.0"
	DefaultInputType = "search_document"
	DefaultTimeout   = 60 * time.Second
)

// Config holds configuration for the Cohere embedding adapter.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.ai).
	BaseURL string

	// Model is the embedding model (default: embed-multilingual-v3.0).
	Model string

	// InputType is required by v3 models (default: search_document).
	InputType string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// EmbeddingProvider generates embeddings using Cohere's /v1/embed.
type EmbeddingProvider struct {
	client    *httpapi.Client
	model     string
	inputType string
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
	Truncate  string   `json:"truncate,omitempty"`
}

type embedResponse struct {
	ID         string      `json:"id"`
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingProvider creates a new Cohere embedding adapter.
func NewEmbeddingProvider(cfg Config) (*EmbeddingProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.InputType == "" {
		cfg.InputType = DefaultInputType
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EmbeddingProvider{
		client: httpapi.New("cohere", cfg.BaseURL, cfg.Timeout, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
		model:     cfg.Model,
		inputType: cfg.InputType,
	}, nil
}

// Embed generates one vector per text in a single request.
func (p *EmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embedRequest{Texts: texts, Model: p.model, InputType: p.inputType, Truncate: "END"}
	var resp embedResponse
	if err := p.client.PostJSON(ctx, "/v1/embed", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, apierr.Malformed("cohere", "expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		v := make([]float32, len(e))
		for j, x := range e {
			v[j] = float32(x)
		}
		out[i] = v
	}
	return out, nil
}

// ModelName returns the embedding model.
func (p *EmbeddingProvider) ModelName() string {
	return p.model
}

// Ping lists models to validate the key.
func (p *EmbeddingProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/v1/models?page_size=1", nil)
}

// Close releases resources.
func (p *EmbeddingProvider) Close() error {
	return nil
}
