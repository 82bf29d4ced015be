package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

var (
	analyzeCombine   bool
	analyzeBatchSize int
	analyzeTopK      int
	analyzeOutput    string
	analyzeTUI       bool
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Answer the question battery for incident reports",
	Long: `Analyse one or more incident reports. Each report is chunked, embedded and
queried with every question of the active battery; answers are appended to
the spreadsheet and stored as results.

Files are analysed one by one unless --combine is given, in which case their
text is merged and analysed as a single document.

Examples:
  incident-rag analyze informe.pdf
  incident-rag analyze --combine parte1.pdf parte2.pdf
  incident-rag analyze --batch-size 5 --output out.xlsx *.pdf
  incident-rag analyze --tui informe.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeCombine, "combine", false, "analyse all files as one document")
	analyzeCmd.Flags().IntVar(&analyzeBatchSize, "batch-size", 0, "questions per prompt (overrides settings)")
	analyzeCmd.Flags().IntVar(&analyzeTopK, "top-k", 0, "chunks retrieved per question (overrides settings)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "spreadsheet to append to (overrides settings)")
	analyzeCmd.Flags().BoolVar(&analyzeTUI, "tui", false, "follow progress in the terminal UI")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		settings.Pipeline.BatchSize = analyzeBatchSize
	}
	if flags.Changed("top-k") {
		settings.Pipeline.TopK = analyzeTopK
	}
	if flags.Changed("output") {
		settings.Output.Spreadsheet = analyzeOutput
	}

	analysis, release, err := svc.NewAnalysis(*settings)
	if err != nil {
		return err
	}
	if release != nil {
		defer release()
	}

	opts := driving.AnalyzeOptions{Combine: analyzeCombine}

	var results []domain.Result
	if analyzeTUI {
		logger.SetSilent(true)
		results, err = tui.Run(cmd.Context(), &tui.Ports{Analysis: analysis}, args, opts)
		logger.SetSilent(false)
	} else {
		opts.Progress = progressPrinter(cmd.ErrOrStderr())
		results, err = analysis.AnalyzeFiles(cmd.Context(), args, opts)
	}

	if len(results) > 0 {
		if printErr := printResults(cmd, results, settings.Output.Spreadsheet); printErr != nil {
			return printErr
		}
	}
	return err
}

// progressPrinter reports stage changes and retries on w.
func progressPrinter(w io.Writer) domain.ProgressFunc {
	return func(p domain.Progress) {
		switch {
		case p.Attempt > 0:
			fmt.Fprintf(w, "%s: rate limited, attempt %d in %s\n", p.Document, p.Attempt, p.Delay)
		case p.Stage == domain.StageCompleting:
			fmt.Fprintf(w, "%s: batch %d/%d\n", p.Document, p.Batch+1, p.TotalBatches)
		case p.Stage == domain.StageFailed:
			fmt.Fprintf(w, "%s: failed: %v\n", p.Document, p.Err)
		case p.Stage == domain.StageChunked, p.Stage == domain.StageIndexed, p.Stage == domain.StageComplete:
			fmt.Fprintf(w, "%s: %s\n", p.Document, p.Stage)
		}
	}
}

func printResults(cmd *cobra.Command, results []domain.Result, spreadsheet string) error {
	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOCUMENT\tMODEL\tANSWERED")
	for i := range results {
		r := &results[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\n", r.ID, r.DocumentName, r.ModelID, r.Answered(), len(r.Answers))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if spreadsheet != "" {
		cmd.Printf("\nAppended %d row(s) to %s\n", len(results), spreadsheet)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
