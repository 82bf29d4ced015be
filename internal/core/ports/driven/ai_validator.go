package driven

import "github.com/custodia-labs/incident-rag/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify configurations by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateCompletion pings the completion provider.
	// Returns nil if configuration is valid or not configured.
	ValidateCompletion(config *domain.CompletionSettings) error
}
