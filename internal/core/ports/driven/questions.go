package driven

import "github.com/custodia-labs/incident-rag/internal/core/domain"

// QuestionSource provides the fixed question battery.
type QuestionSource interface {
	// Questions returns the ordered question set.
	Questions() (domain.QuestionSet, error)
}
