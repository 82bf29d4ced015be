package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/logger"
	"github.com/custodia-labs/incident-rag/internal/watcher"
)

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Analyse reports as they are dropped into a directory",
	Long: `Watch a directory and analyse every supported report written to it.
A file is picked up once it has not changed for the settle interval.
Files already present when the command starts are ignored.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watcher.DefaultSettle, "quiet period before a file is analysed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Settings == nil || svc.NewAnalysis == nil {
		return errors.New("analysis service not configured")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := preflight(svc, *settings); err != nil {
		return err
	}
	analysis, release, err := svc.NewAnalysis(*settings)
	if err != nil {
		return err
	}
	if release != nil {
		defer release()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watcher.Config{
		Dir:    args[0],
		Accept: svc.Supports,
		Settle: watchSettle,
		Handler: func(ctx context.Context, path string) error {
			results, err := analysis.AnalyzeFiles(ctx, []string{path}, driving.AnalyzeOptions{
				Progress: progressPrinter(cmd.ErrOrStderr()),
			})
			for i := range results {
				cmd.Printf("%s: %d/%d answered (%s)\n", results[i].DocumentName,
					results[i].Answered(), len(results[i].Answers), results[i].ID)
			}
			return err
		},
	})
	if err != nil {
		return err
	}
	defer w.Close()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	logger.Info("watching %s", args[0])

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
