package driven

import "context"

// CompletionProvider generates text for a prompt.
//
// The returned model identifier is opaque: it flows into the output record
// unchanged. Failures are classified like EmbeddingProvider failures.
//
// Implementations include:
//   - OpenAI-compatible APIs (OpenAI, Groq, Mistral)
//   - Anthropic, Cohere, Gemini
//   - Ollama (local models)
type CompletionProvider interface {
	// Complete returns the generated text and the model that produced it.
	Complete(ctx context.Context, prompt string) (text string, modelID string, err error)

	// ModelName returns the configured model name.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
