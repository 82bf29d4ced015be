// Package gemini provides an embedding adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure EmbeddingProvider implements the interface.
var _ driven.EmbeddingProvider = (*EmbeddingProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 60 * time.Second
)

const provider = "gemini"

// Config holds configuration for the Gemini embedding adapter.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// EmbeddingProvider generates embeddings with batchEmbedContents.
type EmbeddingProvider struct {
	client *httpapi.Client
	model  string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type embedContentRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []*struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// NewEmbeddingProvider creates a new Gemini embedding adapter.
func NewEmbeddingProvider(cfg Config) (*EmbeddingProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
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

	return &EmbeddingProvider{
		client: httpapi.New(provider, cfg.BaseURL, cfg.Timeout, map[string]string{
			"x-goog-api-key": cfg.APIKey,
		}),
		model: cfg.Model,
	}, nil
}

// modelPath returns the resource name used in request bodies.
func modelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// Embed generates one vector per text in a single request.
func (p *EmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := modelPath(p.model)
	req := batchEmbedRequest{Requests: make([]embedContentRequest, len(texts))}
	for i, t := range texts {
		req.Requests[i] = embedContentRequest{
			Model:   model,
			Content: content{Parts: []part{{Text: t}}},
		}
	}

	var resp batchEmbedResponse
	if err := p.client.PostJSON(ctx, "/v1beta/"+model+":batchEmbedContents", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, apierr.Malformed(provider, "expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, apierr.Malformed(provider, "missing embedding %d", i)
		}
		v := make([]float32, len(e.Values))
		for j, x := range e.Values {
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

// Ping fetches the model metadata.
func (p *EmbeddingProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/v1beta/"+modelPath(p.model), nil)
}

// Close releases resources.
func (p *EmbeddingProvider) Close() error {
	return nil
}
