package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

var (
	questionsFile   string
	questionsJSON   bool
	questionsExport string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the active question battery",
	Long: `Print the questions every report is analysed against, in order.
Use --file to check a YAML question set before activating it, and
--export to write the active set as a YAML file to start a new one from.`,
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().StringVarP(&questionsFile, "file", "f", "", "YAML question set to print instead")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "print as JSON")
	questionsCmd.Flags().StringVar(&questionsExport, "export", "", "write the question set to this YAML file")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}

	set := svc.Questions
	if questionsFile != "" {
		if svc.LoadQuestions == nil {
			return errors.New("question loader not configured")
		}
		set, err = svc.LoadQuestions(questionsFile)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("question set %q: %w", set.Name, err)
	}

	if questionsExport != "" {
		if svc.SaveQuestions == nil {
			return errors.New("question writer not configured")
		}
		if err := svc.SaveQuestions(questionsExport, set); err != nil {
			return fmt.Errorf("failed to export questions: %w", err)
		}
		cmd.Printf("Wrote %d questions to %s\n", set.Len(), questionsExport)
		return nil
	}

	if questionsJSON {
		return writeJSON(cmd.OutOrStdout(), questionsView(set))
	}

	cmd.Printf("%s (%d questions)\n\n", set.Name, set.Len())
	for _, q := range set.Questions {
		cmd.Printf("%3d. %s\n", q.Index, q.Text)
	}
	return nil
}

type questionJSON struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func questionsView(set domain.QuestionSet) map[string]any {
	qs := make([]questionJSON, len(set.Questions))
	for i, q := range set.Questions {
		qs[i] = questionJSON{Index: q.Index, Text: q.Text}
	}
	return map[string]any{"name": set.Name, "questions": qs}
}
