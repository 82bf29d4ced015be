package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/api"
)

var (
	serveAddr      string
	serveAccessLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the analysis pipeline.

Endpoints:
  GET  /api/v1/health
  GET  /api/v1/questions
  POST /api/v1/analyze       multipart "files", optional "combine"
  GET  /api/v1/results       optional ?limit=
  GET  /api/v1/results/:id`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", api.DefaultAddr, "listen address")
	serveCmd.Flags().BoolVar(&serveAccessLog, "access-log", false, "log every request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Settings == nil || svc.NewAnalysis == nil || svc.Results == nil {
		return errors.New("analysis service not configured")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return err
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

	server := api.NewServer(analysis, svc.Results, api.Config{
		Version:   version,
		AccessLog: serveAccessLog,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
