package driving

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// ResultService reads stored analysis results.
type ResultService interface {
	// List returns the most recent results first.
	List(ctx context.Context, limit int) ([]domain.Result, error)

	// Get returns one result or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Result, error)
}
