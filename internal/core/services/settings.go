package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyCompProvider       = "completion.provider"
	keyCompModel          = "completion.model"
	keyCompBaseURL        = "completion.base_url"
	keyCompAPIKey         = "completion.api_key"
	keyCompTemperature    = "completion.temperature"
	keyCompMaxTokens      = "completion.max_tokens"
	keyChunkSize          = "pipeline.chunk_size"
	keyBatchSize          = "pipeline.batch_size"
	keyTopK               = "pipeline.top_k"
	keyEmbedBatchSize     = "pipeline.embed_batch_size"
	keyBatchPause         = "pipeline.batch_pause"
	keyLanguage           = "pipeline.language"
	keyJoinContinuations  = "pipeline.join_continuations"
	keyMaxRetries         = "retry.max_retries"
	keyInitialDelay       = "retry.initial_delay"
	keyRequestsPerMinute  = "retry.requests_per_minute"
	keyStorageDriver      = "storage.driver"
	keyStorageDSN         = "storage.dsn"
	keyOutputSpreadsheet  = "output.spreadsheet"
	keyQuestionsFile      = "questions.file"
	defaultOllamaEndpoint = "http://localhost:11434"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// API keys missing from the config store are read from the provider's
// environment variable (OPENAI_API_KEY and so on).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup used for API keys.
func (s *SettingsService) SetEnvLookup(fn func(string) string) {
	if fn != nil {
		s.getenv = fn
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Completion: domain.CompletionSettings{
			Provider:    s.getProvider(keyCompProvider),
			Model:       s.configStore.GetString(keyCompModel),
			BaseURL:     s.configStore.GetString(keyCompBaseURL),
			APIKey:      s.configStore.GetString(keyCompAPIKey),
			Temperature: s.configStore.GetFloat(keyCompTemperature),
			MaxTokens:   s.configStore.GetInt(keyCompMaxTokens),
		},
		Pipeline: domain.PipelineSettings{
			ChunkSize:         s.getInt(keyChunkSize, d.Pipeline.ChunkSize),
			BatchSize:         s.getInt(keyBatchSize, d.Pipeline.BatchSize),
			TopK:              s.getInt(keyTopK, d.Pipeline.TopK),
			EmbedBatchSize:    s.getInt(keyEmbedBatchSize, d.Pipeline.EmbedBatchSize),
			BatchPause:        s.getDuration(keyBatchPause, d.Pipeline.BatchPause),
			Language:          s.getString(keyLanguage, d.Pipeline.Language),
			JoinContinuations: s.configStore.GetBool(keyJoinContinuations),
		},
		Retry: domain.RetrySettings{
			MaxRetries:        s.getInt(keyMaxRetries, d.Retry.MaxRetries),
			InitialDelay:      s.getDuration(keyInitialDelay, d.Retry.InitialDelay),
			RequestsPerMinute: s.getInt(keyRequestsPerMinute, 0),
		},
		Storage: domain.StorageSettings{
			Driver: s.getStorageDriver(d.Storage.Driver),
			DSN:    s.configStore.GetString(keyStorageDSN),
		},
		Output: domain.OutputSettings{
			Spreadsheet: s.getString(keyOutputSpreadsheet, d.Output.Spreadsheet),
		},
		QuestionsFile: s.configStore.GetString(keyQuestionsFile),
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.Completion.Model == "" {
		settings.Completion.Model = domain.DefaultCompletionModels()[settings.Completion.Provider]
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envKey(settings.Embedding.Provider)
	}
	if settings.Completion.APIKey == "" {
		settings.Completion.APIKey = s.envKey(settings.Completion.Provider)
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so keys from the environment
// never end up in the config file unless the user typed them.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyCompProvider, settings.Completion.Provider.String()},
		{keyCompModel, settings.Completion.Model},
		{keyCompBaseURL, settings.Completion.BaseURL},
		{keyCompTemperature, settings.Completion.Temperature},
		{keyCompMaxTokens, settings.Completion.MaxTokens},
		{keyChunkSize, settings.Pipeline.ChunkSize},
		{keyBatchSize, settings.Pipeline.BatchSize},
		{keyTopK, settings.Pipeline.TopK},
		{keyEmbedBatchSize, settings.Pipeline.EmbedBatchSize},
		{keyBatchPause, settings.Pipeline.BatchPause.String()},
		{keyLanguage, settings.Pipeline.Language},
		{keyJoinContinuations, settings.Pipeline.JoinContinuations},
		{keyMaxRetries, settings.Retry.MaxRetries},
		{keyInitialDelay, settings.Retry.InitialDelay.String()},
		{keyRequestsPerMinute, settings.Retry.RequestsPerMinute},
		{keyStorageDriver, string(settings.Storage.Driver)},
		{keyStorageDSN, settings.Storage.DSN},
		{keyOutputSpreadsheet, settings.Output.Spreadsheet},
		{keyQuestionsFile, settings.QuestionsFile},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.Embedding.APIKey; key != "" && key != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if key := settings.Completion.APIKey; key != "" && key != s.envKey(settings.Completion.Provider) {
		if err := s.configStore.Set(keyCompAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyCompAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s (or set %s)",
			domain.ErrInvalidInput, provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = ""
	if provider == domain.AIProviderOllama {
		settings.Embedding.BaseURL = defaultOllamaEndpoint
	}
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetCompletionProvider configures the completion provider.
func (s *SettingsService) SetCompletionProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid completion provider: %s", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s (or set %s)",
			domain.ErrInvalidInput, provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Completion.Provider = provider
	settings.Completion.Model = model
	if model == "" {
		settings.Completion.Model = domain.DefaultCompletionModels()[provider]
	}
	settings.Completion.BaseURL = ""
	if provider == domain.AIProviderOllama {
		settings.Completion.BaseURL = defaultOllamaEndpoint
	}
	settings.Completion.APIKey = apiKey

	return s.Save(settings)
}

// SetPipeline updates chunk size, batch size and top-k.
// Zero leaves a value unchanged.
func (s *SettingsService) SetPipeline(chunkSize, batchSize, topK int) error {
	if chunkSize < 0 || batchSize < 0 || topK < 0 {
		return fmt.Errorf("%w: pipeline values must be positive", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if chunkSize > 0 {
		settings.Pipeline.ChunkSize = chunkSize
	}
	if batchSize > 0 {
		settings.Pipeline.BatchSize = batchSize
	}
	if topK > 0 {
		settings.Pipeline.TopK = topK
	}
	return s.Save(settings)
}

// Validate checks that both providers are configured.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: run 'incident-rag settings embedding'", domain.ErrEmbeddingUnavailable)
	}
	if !settings.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: %s has no embedding endpoint", domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.Completion.IsConfigured() {
		return fmt.Errorf("%w: run 'incident-rag settings completion'", domain.ErrCompletionUnavailable)
	}
	if settings.Storage.Driver == domain.StoragePostgres && settings.Storage.DSN == "" {
		return fmt.Errorf("%w: storage.dsn is required for postgres", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateCompletionConfig pings the configured completion provider.
func (s *SettingsService) ValidateCompletionConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateCompletion(&settings.Completion)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envKey(p domain.AIProvider) string {
	if env := p.APIKeyEnv(); env != "" {
		return s.getenv(env)
	}
	return ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetDuration(key)
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return ""
	}
	return provider
}

func (s *SettingsService) getStorageDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(s.configStore.GetString(keyStorageDriver))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
