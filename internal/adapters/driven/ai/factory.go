// Package ai provides factory functions for creating AI provider adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	cohereembed "github.com/custodia-labs/incident-rag/internal/adapters/driven/embedding/cohere"
	geminiembed "github.com/custodia-labs/incident-rag/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/incident-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/incident-rag/internal/adapters/driven/embedding/openai"

	anthropiccomp "github.com/custodia-labs/incident-rag/internal/adapters/driven/completion/anthropic"
	coherecomp "github.com/custodia-labs/incident-rag/internal/adapters/driven/completion/cohere"
	geminicomp "github.com/custodia-labs/incident-rag/internal/adapters/driven/completion/gemini"
	ollamacomp "github.com/custodia-labs/incident-rag/internal/adapters/driven/completion/ollama"
	openaicomp "github.com/custodia-labs/incident-rag/internal/adapters/driven/completion/openai"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Providers bundles the adapters one analysis needs.
type Providers struct {
	Embedding  driven.EmbeddingProvider
	Completion driven.CompletionProvider
}

// Close releases both providers.
func (p *Providers) Close() {
	if p.Embedding != nil {
		p.Embedding.Close()
	}
	if p.Completion != nil {
		p.Completion.Close()
	}
}

// NewProviders creates both providers from settings and wraps them in the
// client-side throttle. Unconfigured providers are left nil; the analysis
// service reports them as unavailable.
func NewProviders(settings *domain.AppSettings) (*Providers, error) {
	embedder, err := CreateEmbeddingProvider(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	completer, err := CreateCompletionProvider(&settings.Completion)
	if err != nil {
		if embedder != nil {
			embedder.Close()
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionUnavailable, err)
	}

	p := &Providers{}
	if embedder != nil {
		p.Embedding = NewThrottledEmbedder(embedder, NewLimiter(settings.Retry.RequestsPerMinute))
	}
	if completer != nil {
		p.Completion = NewThrottledCompleter(completer, NewLimiter(settings.Retry.RequestsPerMinute))
	}
	return p, nil
}

// CreateAndValidateEmbeddingProvider creates an embedding provider and validates connectivity.
// Returns the provider if successful, or an error with guidance.
func CreateAndValidateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	p, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'incident-rag settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'incident-rag settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return p, nil
}

// CreateAndValidateCompletionProvider creates a completion provider and validates connectivity.
// Returns the provider if successful, or an error with guidance.
func CreateAndValidateCompletionProvider(settings *domain.CompletionSettings) (driven.CompletionProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	p, err := CreateCompletionProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'incident-rag settings completion' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'incident-rag settings completion' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	return p, nil
}

// ValidateEmbeddingConfig creates a provider and pings it.
// Used by the settings commands to check credentials as they are entered.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	p, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// ValidateCompletionConfig creates a provider and pings it.
func ValidateCompletionConfig(settings *domain.CompletionSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	p, err := CreateCompletionProvider(settings)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// CreateEmbeddingProvider creates the embedding adapter selected by settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	if !settings.Provider.SupportsEmbeddings() {
		return nil, fmt.Errorf("%s does not support embeddings, use one of %v",
			settings.Provider, domain.AllEmbeddingProviders())
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingProvider(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI, domain.AIProviderMistral:
		return openaiembed.NewEmbeddingProvider(openaiembed.Config{
			Provider: settings.Provider.String(),
			APIKey:   settings.APIKey,
			BaseURL:  openAICompatibleURL(settings.Provider, settings.BaseURL),
			Model:    settings.Model,
		})

	case domain.AIProviderCohere:
		return cohereembed.NewEmbeddingProvider(cohereembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingProvider(geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateCompletionProvider creates the completion adapter selected by settings.
// Returns nil if the provider is not configured.
func CreateCompletionProvider(settings *domain.CompletionSettings) (driven.CompletionProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamacomp.NewCompletionProvider(ollamacomp.Config{
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		}), nil

	case domain.AIProviderOpenAI, domain.AIProviderGroq, domain.AIProviderMistral:
		return openaicomp.NewCompletionProvider(openaicomp.Config{
			Provider:    settings.Provider.String(),
			APIKey:      settings.APIKey,
			BaseURL:     openAICompatibleURL(settings.Provider, settings.BaseURL),
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		})

	case domain.AIProviderAnthropic:
		return anthropiccomp.NewCompletionProvider(anthropiccomp.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		})

	case domain.AIProviderCohere:
		return coherecomp.NewCompletionProvider(coherecomp.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		})

	case domain.AIProviderGemini:
		return geminicomp.NewCompletionProvider(geminicomp.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", settings.Provider)
	}
}

// openAICompatibleURL picks the endpoint for the OpenAI-compatible backends.
func openAICompatibleURL(provider domain.AIProvider, override string) string {
	if override != "" {
		return override
	}
	switch provider {
	case domain.AIProviderGroq:
		return openaicompat.GroqBaseURL
	case domain.AIProviderMistral:
		return openaicompat.MistralBaseURL
	default:
		return openaicompat.OpenAIBaseURL
	}
}
