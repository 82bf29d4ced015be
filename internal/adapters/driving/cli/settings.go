package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI providers, the pipeline and the output options.

Use subcommands to configure one part or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure both providers and the pipeline.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the provider used to embed report chunks and questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsCompletionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Configure completion provider",
	Long:  `Configure the language model that answers the question batches.`,
	RunE:  runSettingsCompletion,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Set chunk size, batch size and top-k",
	Long: `Set the pipeline parameters. Only the flags given are changed.

Examples:
  incident-rag settings pipeline --batch-size 5
  incident-rag settings pipeline --chunk-size 1024 --top-k 8`,
	RunE: runSettingsPipeline,
}

// settingsInput is read by the interactive prompts; tests replace it.
var settingsInput io.Reader = os.Stdin

func init() {
	settingsPipelineCmd.Flags().Int("chunk-size", 0, "maximum chunk length in characters")
	settingsPipelineCmd.Flags().Int("batch-size", 0, "questions per prompt")
	settingsPipelineCmd.Flags().Int("top-k", 0, "chunks retrieved per question")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsCompletionCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsService() (driving.SettingsService, error) {
	if services == nil || services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[Completion]")
	printProvider(cmd, settings.Completion.Provider, settings.Completion.Model,
		settings.Completion.BaseURL, settings.Completion.APIKey, settings.Completion.IsConfigured())

	p := settings.Pipeline
	cmd.Println("[Pipeline]")
	cmd.Printf("  Chunk size: %d\n", p.ChunkSize)
	cmd.Printf("  Batch size: %d\n", p.BatchSize)
	cmd.Printf("  Top-k: %d\n", p.TopK)
	cmd.Printf("  Pause between batches: %s\n", p.BatchPause)
	cmd.Printf("  Answer language: %s\n", p.Language)
	cmd.Println()

	cmd.Println("[Retry]")
	cmd.Printf("  Attempts: %d\n", settings.Retry.MaxRetries)
	cmd.Printf("  Initial delay: %s\n", settings.Retry.InitialDelay)
	if settings.Retry.RequestsPerMinute > 0 {
		cmd.Printf("  Requests per minute: %d\n", settings.Retry.RequestsPerMinute)
	}
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Storage: %s\n", settings.Storage.Driver)
	if settings.Output.Spreadsheet != "" {
		cmd.Printf("  Spreadsheet: %s\n", settings.Output.Spreadsheet)
	} else {
		cmd.Println("  Spreadsheet: (disabled)")
	}
	if settings.QuestionsFile != "" {
		cmd.Printf("  Questions: %s\n", settings.QuestionsFile)
	}
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'incident-rag settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set, or export %s)\n", provider.APIKeyEnv())
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	cmd.Println("Incident RAG Settings Wizard")
	cmd.Println("============================")
	cmd.Println()

	reader := bufio.NewReader(settingsInput)

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	if err := configureProvider(cmd, reader, svc, embeddingChoice); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure Completion Provider")
	cmd.Println("-------------------------------------")
	if err := configureProvider(cmd, reader, svc, completionChoice); err != nil {
		return err
	}

	cmd.Println("Step 3: Pipeline")
	cmd.Println("----------------")
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	p := settings.Pipeline
	cmd.Printf("Questions per batch [%d]: ", p.BatchSize)
	batchSize := parseNumber(readLine(reader), p.BatchSize)
	cmd.Printf("Chunks per question [%d]: ", p.TopK)
	topK := parseNumber(readLine(reader), p.TopK)
	if err := svc.SetPipeline(p.ChunkSize, batchSize, topK); err != nil {
		return fmt.Errorf("failed to set pipeline: %w", err)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	return configureProvider(cmd, bufio.NewReader(settingsInput), svc, embeddingChoice)
}

func runSettingsCompletion(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	return configureProvider(cmd, bufio.NewReader(settingsInput), svc, completionChoice)
}

func runSettingsPipeline(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := settings.Pipeline
	chunkSize, batchSize, topK := p.ChunkSize, p.BatchSize, p.TopK
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		chunkSize, _ = flags.GetInt("chunk-size") //nolint:errcheck // flag is registered as int
	}
	if flags.Changed("batch-size") {
		batchSize, _ = flags.GetInt("batch-size") //nolint:errcheck // flag is registered as int
	}
	if flags.Changed("top-k") {
		topK, _ = flags.GetInt("top-k") //nolint:errcheck // flag is registered as int
	}

	if err := svc.SetPipeline(chunkSize, batchSize, topK); err != nil {
		return fmt.Errorf("failed to set pipeline: %w", err)
	}

	cmd.Printf("Pipeline set: chunk size %d, batch size %d, top-k %d\n", chunkSize, batchSize, topK)
	return nil
}

// providerChoice describes one of the two provider prompts.
type providerChoice struct {
	label     string
	providers func() []domain.AIProvider
	models    func() map[domain.AIProvider]string
	set       func(driving.SettingsService, domain.AIProvider, string, string) error
	validate  func(driving.SettingsService) error
}

var embeddingChoice = providerChoice{
	label:     "embedding",
	providers: domain.AllEmbeddingProviders,
	models:    domain.DefaultEmbeddingModels,
	set:       driving.SettingsService.SetEmbeddingProvider,
	validate:  driving.SettingsService.ValidateEmbeddingConfig,
}

var completionChoice = providerChoice{
	label:     "completion",
	providers: domain.AllCompletionProviders,
	models:    domain.DefaultCompletionModels,
	set:       driving.SettingsService.SetCompletionProvider,
	validate:  driving.SettingsService.ValidateCompletionConfig,
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, svc driving.SettingsService, c providerChoice) error {
	cmd.Printf("Select %s provider\n", c.label)
	providers := c.providers()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := c.models()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Printf("Enter API key (blank to use %s): ", selected.APIKeyEnv())
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" && os.Getenv(selected.APIKeyEnv()) == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := c.set(svc, selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", c.label, err)
	}

	cmd.Print("Validating configuration... ")
	if err := c.validate(svc); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", c.label, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n\n", strings.ToUpper(c.label[:1])+c.label[1:],
		selected.Description(), model)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseNumber(input string, defaultVal int) int {
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if f, ok := settingsInput.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
