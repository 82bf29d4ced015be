package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderMistral is the Mistral cloud API (OpenAI-compatible).
	AIProviderMistral AIProvider = "mistral"

	// AIProviderCohere is the Cohere cloud API.
	AIProviderCohere AIProvider = "cohere"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderGroq, AIProviderMistral, AIProviderCohere, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p.IsValid() && p != AIProviderOllama
}

// SupportsEmbeddings returns true if the provider offers an embedding endpoint.
func (p AIProvider) SupportsEmbeddings() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderMistral, AIProviderCohere, AIProviderGemini:
		return true
	default:
		return false
	}
}

// APIKeyEnv returns the environment variable holding the provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGroq:
		return "GROQ_API_KEY"
	case AIProviderMistral:
		return "MISTRAL_API_KEY"
	case AIProviderCohere:
		return "COHERE_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderMistral:
		return "Mistral (cloud)"
	case AIProviderCohere:
		return "Cohere (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CompletionSettings holds completion provider configuration.
type CompletionSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the completion model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Temperature is passed to the backend; 0 keeps the backend default.
	Temperature float64

	// MaxTokens bounds the answer length; 0 keeps the backend default.
	MaxTokens int
}

// IsConfigured returns true if the completion provider is set up.
func (c CompletionSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings tunes chunking, batching and retrieval.
type PipelineSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// BatchSize is the number of questions per prompt.
	BatchSize int

	// TopK is the number of chunks retrieved per question.
	TopK int

	// EmbedBatchSize is the number of texts sent per embedding call.
	EmbedBatchSize int

	// BatchPause is the sleep between consecutive batches.
	BatchPause time.Duration

	// Language is the answer language requested in the prompt.
	Language string

	// JoinContinuations appends unnumbered lines to the previous answer.
	JoinContinuations bool
}

// RetrySettings holds the rate-limit backoff policy.
type RetrySettings struct {
	// MaxRetries is the total number of attempts.
	MaxRetries int

	// InitialDelay is the first backoff delay; it doubles each retry.
	InitialDelay time.Duration

	// RequestsPerMinute throttles provider calls client-side. 0 disables it.
	RequestsPerMinute int
}

// StorageDriver selects the result store backend.
type StorageDriver string

// Available storage drivers.
const (
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// StorageSettings configures where results are kept.
type StorageSettings struct {
	Driver StorageDriver

	// DSN is the connection string (postgres) or data directory (sqlite).
	DSN string
}

// OutputSettings configures the spreadsheet sink.
type OutputSettings struct {
	// Spreadsheet is the XLSX path results are appended to. Empty disables it.
	Spreadsheet string
}

// AppSettings holds all application settings.
// It is built once at startup and passed to constructors.
type AppSettings struct {
	Embedding  EmbeddingSettings
	Completion CompletionSettings
	Pipeline   PipelineSettings
	Retry      RetrySettings
	Storage    StorageSettings
	Output     OutputSettings

	// QuestionsFile is an optional YAML question set replacing the built-in one.
	QuestionsFile string
}

// Pipeline defaults.
const (
	DefaultChunkSize      = 2048
	DefaultBatchSize      = 10
	DefaultTopK           = 5
	DefaultEmbedBatchSize = 16
	DefaultBatchPause     = 2 * time.Second
	DefaultLanguage       = "español"
	DefaultMaxRetries     = 7
	DefaultInitialDelay   = 5 * time.Second
	DefaultSpreadsheet    = "resultados.xlsx"
)

// DefaultAppSettings returns settings with sensible defaults.
// Providers are left unconfigured; users set them via settings commands or env.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Pipeline: PipelineSettings{
			ChunkSize:      DefaultChunkSize,
			BatchSize:      DefaultBatchSize,
			TopK:           DefaultTopK,
			EmbedBatchSize: DefaultEmbedBatchSize,
			BatchPause:     DefaultBatchPause,
			Language:       DefaultLanguage,
		},
		Retry: RetrySettings{
			MaxRetries:   DefaultMaxRetries,
			InitialDelay: DefaultInitialDelay,
		},
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Output: OutputSettings{
			Spreadsheet: DefaultSpreadsheet,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderMistral,
		AIProviderCohere,
		AIProviderGemini,
	}
}

// AllCompletionProviders returns providers that support completions.
func AllCompletionProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGroq,
		AIProviderMistral,
		AIProviderCohere,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderMistral: "mistral-embed",
		AIProviderCohere:  "embed-multilingual-v3.0",
		AIProviderGemini:  "text-embedding-004",
	}
}

// DefaultCompletionModels returns default models for each completion provider.
func DefaultCompletionModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGroq:      "llama3-8b-8192",
		AIProviderMistral:   "mistral-large-latest",
		AIProviderCohere:    "command-r7b-12-2024",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}
