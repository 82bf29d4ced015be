package driven

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// Normaliser extracts plain text from one kind of uploaded file.
type Normaliser interface {
	// SupportedExtensions returns lower-case file extensions, with the dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise extracts the document text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
