// Package cli implements the incident-rag command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// skipServices marks commands that run without bootstrapping services.
const skipServices = "skip-services"

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigDir     string
	QuestionsFile string
	Verbose       bool
}

// AnalysisFactory builds an analysis service for settings.
// The returned func releases provider resources.
type AnalysisFactory func(settings domain.AppSettings) (driving.AnalysisService, func(), error)

// Services holds what the commands need.
type Services struct {
	Settings driving.SettingsService
	Results  driving.ResultService

	// Questions is the active question set.
	Questions domain.QuestionSet

	// LoadQuestions reads a question set file.
	LoadQuestions func(path string) (domain.QuestionSet, error)

	// SaveQuestions writes a question set file.
	SaveQuestions func(path string, set domain.QuestionSet) error

	// Preflight checks that the providers in settings answer.
	// Long-running commands call it before they start serving. May be nil.
	Preflight func(settings domain.AppSettings) error

	// NewAnalysis builds the pipeline once providers are known to be needed.
	NewAnalysis AnalysisFactory

	// Supports reports whether a file format can be analysed.
	Supports func(path string) bool

	// Close releases stores. May be nil.
	Close func() error
}

// Bootstrap builds Services from the global options.
type Bootstrap func(opts GlobalOptions) (*Services, error)

var (
	globalOpts GlobalOptions
	bootstrap  Bootstrap
	services   *Services
)

var rootCmd = &cobra.Command{
	Use:   "incident-rag",
	Short: "Answer a fixed question battery about incident reports",
	Long: `incident-rag reads incident reports (PDF or text), retrieves the passages
relevant to each question of a fixed battery, and asks a language model to
answer them in batches. Answers are appended to a spreadsheet and stored for
later review.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigDir, "config-dir", "",
		"configuration directory (default ~/.incident-rag)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.QuestionsFile, "questions", "",
		"YAML question set replacing the configured one")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func loadServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if cmd.Annotations[skipServices] == "true" || services != nil || bootstrap == nil {
		return nil
	}
	s, err := bootstrap(globalOpts)
	if err != nil {
		return err
	}
	services = s
	return nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	services = nil
}

// preflight runs the configured provider check, if any.
func preflight(svc *Services, settings domain.AppSettings) error {
	if svc.Preflight == nil {
		return nil
	}
	return svc.Preflight(settings)
}

// requireServices returns the services or an error when none are configured.
func requireServices() (*Services, error) {
	if services == nil {
		return nil, errors.New("services not configured")
	}
	return services, nil
}
