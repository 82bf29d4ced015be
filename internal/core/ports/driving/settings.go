package driving

import "github.com/custodia-labs/incident-rag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment credentials applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetCompletionProvider configures the completion provider.
	SetCompletionProvider(provider domain.AIProvider, model, apiKey string) error

	// SetPipeline updates chunk size, batch size and top-k.
	SetPipeline(chunkSize, batchSize, topK int) error

	// Validate checks that both providers are configured.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateCompletionConfig pings the configured completion provider.
	ValidateCompletionConfig() error
}
