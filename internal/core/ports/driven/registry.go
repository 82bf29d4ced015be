package driven

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// DocumentLoader turns files into documents.
// Formats without a normaliser fail with domain.ErrUnsupportedDocument.
type DocumentLoader interface {
	// Load reads and normalises the file at path.
	Load(ctx context.Context, path string) (*domain.Document, error)

	// LoadRaw normalises an already read file.
	LoadRaw(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds a normaliser.
	Register(normaliser Normaliser)

	// SupportedExtensions returns every extension that can be loaded.
	SupportedExtensions() []string
}
