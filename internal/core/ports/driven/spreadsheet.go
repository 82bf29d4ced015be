package driven

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// ResultWriter appends output records to a spreadsheet.
// The sheet is created with a header row on first use.
type ResultWriter interface {
	// Append writes one row per result with columns
	// [id, name, model, answer_1 .. answer_N] following set order.
	Append(ctx context.Context, set domain.QuestionSet, results ...domain.Result) error

	// Path returns the spreadsheet location.
	Path() string
}
