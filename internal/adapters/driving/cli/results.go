package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

var (
	resultsLimit int
	resultsJSON  bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse stored analysis results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent results",
	RunE:  runResultsList,
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every answer of one result",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsShow,
}

func init() {
	resultsListCmd.Flags().IntVarP(&resultsLimit, "limit", "n", 20, "maximum results to list")
	resultsCmd.PersistentFlags().BoolVar(&resultsJSON, "json", false, "print as JSON")
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	rootCmd.AddCommand(resultsCmd)
}

func resultService() (driving.ResultService, error) {
	if services == nil || services.Results == nil {
		return nil, errors.New("result service not configured")
	}
	return services.Results, nil
}

func runResultsList(cmd *cobra.Command, _ []string) error {
	svc, err := resultService()
	if err != nil {
		return err
	}

	results, err := svc.List(cmd.Context(), resultsLimit)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if resultsJSON {
		if results == nil {
			results = []domain.Result{}
		}
		return writeJSON(cmd.OutOrStdout(), results)
	}

	if len(results) == 0 {
		cmd.Println("No results yet. Run 'incident-rag analyze <file>' first.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOCUMENT\tMODEL\tANSWERED\tCREATED")
	for i := range results {
		r := &results[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\n", r.ID, r.DocumentName, r.ModelID,
			r.Answered(), len(r.Answers), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	svc, err := resultService()
	if err != nil {
		return err
	}

	r, err := svc.Get(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("result %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get result: %w", err)
	}

	if resultsJSON {
		return writeJSON(cmd.OutOrStdout(), r)
	}

	cmd.Printf("Document: %s\n", r.DocumentName)
	cmd.Printf("Model: %s\n", r.ModelID)
	if r.EmbeddingModel != "" {
		cmd.Printf("Embedding model: %s\n", r.EmbeddingModel)
	}
	cmd.Printf("Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Answered: %d/%d\n\n", r.Answered(), len(r.Answers))
	for _, a := range r.Answers {
		cmd.Printf("%d. %s\n   %s\n", a.Index, a.Question, a.Text)
	}
	return nil
}
