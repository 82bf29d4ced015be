package driven

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// PostProcessor turns document text into retrievable chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits the document into ordered chunks.
	// Concatenating chunk contents must reproduce the document text.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
