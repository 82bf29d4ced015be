// Command incident-rag answers a fixed question battery about incident reports.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/spreadsheet/xlsx"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/incident-rag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/core/services"
	"github.com/custodia-labs/incident-rag/internal/logger"
	"github.com/custodia-labs/incident-rag/internal/normalisers"
	"github.com/custodia-labs/incident-rag/internal/normalisers/pdf"
	"github.com/custodia-labs/incident-rag/internal/postprocessors/chunker"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

const connectTimeout = 10 * time.Second

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

func bootstrap(opts cli.GlobalOptions) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}

	loaded, err := file.LoadEnv(configDir)
	if err != nil {
		return nil, err
	}
	for _, path := range loaded {
		logger.Debug("loaded environment from %s", path)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	questionsPath := settings.QuestionsFile
	if opts.QuestionsFile != "" {
		questionsPath = opts.QuestionsFile
	}
	questions, err := file.NewQuestionLoader(questionsPath).Questions()
	if err != nil {
		return nil, err
	}
	logger.Debug("question set %q with %d questions", questions.Name, questions.Len())

	store, err := openResultStore(settings.Storage, configDir)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		store.Close()
		return nil, err
	}
	loader := normalisers.Default()

	newAnalysis := func(s domain.AppSettings) (driving.AnalysisService, func(), error) {
		providers, err := ai.NewProviders(&s)
		if err != nil {
			return nil, nil, err
		}

		svc := services.NewAnalysisService(
			providers.Embedding,
			providers.Completion,
			chunker.New(chunker.WithChunkSize(s.Pipeline.ChunkSize)),
			flat.NewIndex,
			questions,
			s,
		)
		svc.SetPromptStore(prompts)
		svc.SetLoader(loader)
		svc.SetResultStore(store)
		if s.Output.Spreadsheet != "" {
			svc.SetResultWriter(xlsx.NewWriter(s.Output.Spreadsheet))
		}
		return svc, providers.Close, nil
	}

	return &cli.Services{
		Settings:  settingsService,
		Results:   services.NewResultService(store),
		Questions: questions,
		LoadQuestions: func(path string) (domain.QuestionSet, error) {
			return file.NewQuestionLoader(path).Questions()
		},
		SaveQuestions: file.SaveQuestionSet,
		Preflight:     preflight,
		NewAnalysis:   newAnalysis,
		Supports:      loader.Supports,
		Close:         store.Close,
	}, nil
}

// preflight pings both providers so long-running commands fail at startup
// rather than on the first report.
func preflight(s domain.AppSettings) error {
	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v: PDF reports will be rejected\n%s", err, pdf.InstallInstructions())
	}

	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: run 'incident-rag settings embedding'", domain.ErrEmbeddingUnavailable)
	}
	if !s.Completion.IsConfigured() {
		return fmt.Errorf("%w: run 'incident-rag settings completion'", domain.ErrCompletionUnavailable)
	}

	embedder, err := ai.CreateAndValidateEmbeddingProvider(&s.Embedding)
	if err != nil {
		return err
	}
	embedder.Close()

	completer, err := ai.CreateAndValidateCompletionProvider(&s.Completion)
	if err != nil {
		return err
	}
	completer.Close()
	return nil
}

func openResultStore(cfg domain.StorageSettings, configDir string) (driven.ResultStore, error) {
	switch cfg.Driver {
	case domain.StorageMemory:
		return memory.NewResultStore(), nil
	case domain.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		store, err := postgres.NewStore(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres result store: %w", err)
		}
		return store, nil
	default:
		dataDir := cfg.DSN
		if dataDir == "" {
			dataDir = filepath.Join(configDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite result store: %w", err)
		}
		return store, nil
	}
}
