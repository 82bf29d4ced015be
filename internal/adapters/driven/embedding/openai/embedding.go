// Package openai provides an embedding adapter for OpenAI-compatible APIs.
// It serves both OpenAI and Mistral, which differ only in base URL and model.
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

// Ensure EmbeddingProvider implements the interface.
var _ driven.EmbeddingProvider = (*EmbeddingProvider)(nil)

// Default configuration values.
const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the embedding adapter.
type Config struct {
	// Provider names the backend in errors (default: openai).
	Provider string

	// APIKey is the API key (required).
	APIKey string

	// BaseURL overrides the endpoint, e.g. the Mistral API.
	BaseURL string

	// Model is the embedding model (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// EmbeddingProvider generates embeddings through go-openai.
type EmbeddingProvider struct {
	client   *goopenai.Client
	provider string
	model    string
}

// NewEmbeddingProvider creates a new OpenAI-compatible embedding adapter.
func NewEmbeddingProvider(cfg Config) (*EmbeddingProvider, error) {
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

	return &EmbeddingProvider{
		client:   openaicompat.NewClient(cfg.APIKey, cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}),
		provider: cfg.Provider,
		model:    cfg.Model,
	}, nil
}

// Embed generates one vector per text in a single request.
func (p *EmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(p.model),
		Input: texts,
	})
	if err != nil {
		return nil, openaicompat.Classify(p.provider, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, apierr.Malformed(p.provider, "expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) || out[d.Index] != nil {
			return nil, apierr.Malformed(p.provider, "unexpected embedding index %d", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		out[d.Index] = v
	}
	return out, nil
}

// ModelName returns the embedding model.
func (p *EmbeddingProvider) ModelName() string {
	return p.model
}

// Ping lists models, which validates the key without spending tokens.
func (p *EmbeddingProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return openaicompat.Classify(p.provider, err)
	}
	return nil
}

// Close releases resources.
func (p *EmbeddingProvider) Close() error {
	return nil
}
