package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

// Ensure ResultService implements the interface.
var _ driving.ResultService = (*ResultService)(nil)

// DefaultResultLimit caps listings when no limit is given.
const DefaultResultLimit = 20

// ResultService reads stored analysis results.
type ResultService struct {
	store driven.ResultStore
}

// NewResultService creates a result service.
func NewResultService(store driven.ResultStore) *ResultService {
	return &ResultService{store: store}
}

// List returns the most recent results first.
func (s *ResultService) List(ctx context.Context, limit int) ([]domain.Result, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	results, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.Result{}
	}
	return results, nil
}

// Get returns one result.
func (s *ResultService) Get(ctx context.Context, id string) (*domain.Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}
