// Package openaicompat builds go-openai clients for OpenAI-compatible backends
// and classifies their errors.
package openaicompat

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
)

// Base URLs of the OpenAI-compatible backends.
const (
	OpenAIBaseURL  = "https://api.openai.com/v1"
	GroqBaseURL    = "https://api.groq.com/openai/v1"
	MistralBaseURL = "https://api.mistral.ai/v1"
)

// NewClient creates a client for apiKey, pointed at baseURL when set.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// Classify maps a go-openai error onto the domain error kinds.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apierr.FromStatus(provider, apiErr.HTTPStatusCode, nil, []byte(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return apierr.FromStatus(provider, reqErr.HTTPStatusCode, nil, reqErr.Body)
	}

	return apierr.Transport(provider, err)
}
