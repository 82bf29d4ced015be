// Package gemini provides a completion adapter using the Gemini API.
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

// Ensure CompletionProvider implements the interface.
var _ driven.CompletionProvider = (*CompletionProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 180 * time.Second
)

const provider = "gemini"

// Config holds configuration for the Gemini completion adapter.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// CompletionProvider generates answers with generateContent.
type CompletionProvider struct {
	client *httpapi.Client
	model  string
	config *generationConfig
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// NewCompletionProvider creates a new Gemini completion adapter.
func NewCompletionProvider(cfg Config) (*CompletionProvider, error) {
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

	var genCfg *generationConfig
	if cfg.Temperature != 0 || cfg.MaxTokens != 0 {
		genCfg = &generationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
		}
	}
	return &CompletionProvider{
		client: httpapi.New(provider, cfg.BaseURL, cfg.Timeout, map[string]string{
			"x-goog-api-key": cfg.APIKey,
		}),
		model:  cfg.Model,
		config: genCfg,
	}, nil
}

func modelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// Complete sends prompt as one user turn and joins the first candidate's parts.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string) (string, string, error) {
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: p.config,
	}

	var resp generateResponse
	if err := p.client.PostJSON(ctx, "/v1beta/"+modelPath(p.model)+":generateContent", req, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", "", apierr.Malformed(provider, "no candidates returned")
	}

	var text strings.Builder
	for _, pt := range resp.Candidates[0].Content.Parts {
		text.WriteString(pt.Text)
	}

	modelID := resp.ModelVersion
	if modelID == "" {
		modelID = p.model
	}
	return text.String(), modelID, nil
}

// ModelName returns the configured model.
func (p *CompletionProvider) ModelName() string {
	return p.model
}

// Ping fetches the model metadata.
func (p *CompletionProvider) Ping(ctx context.Context) error {
	return p.client.Get(ctx, "/v1beta/"+modelPath(p.model), nil)
}

// Close releases resources.
func (p *CompletionProvider) Close() error {
	return nil
}
