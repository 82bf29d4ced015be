package driven

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// ResultStore persists analysis results for later listing.
type ResultStore interface {
	// Save stores a result. Saving an existing ID replaces it.
	Save(ctx context.Context, result *domain.Result) error

	// Get retrieves a result by ID or returns domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Result, error)

	// List returns the most recent results first, at most limit (0 = all).
	List(ctx context.Context, limit int) ([]domain.Result, error)

	// Close releases resources.
	Close() error
}
