// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingProvider converts text into fixed-dimension vectors.
//
// Embed returns one vector per input, in input order, all of equal length.
// Failures are classified with domain.ErrRateLimited (retried by the caller),
// domain.ErrAuthInvalid or domain.ErrProvider.
//
// Implementations include:
//   - OpenAI-compatible APIs (OpenAI, Mistral)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Cohere and Gemini
type EmbeddingProvider interface {
	// Embed generates embeddings for texts. The caller decides batch sizes.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
