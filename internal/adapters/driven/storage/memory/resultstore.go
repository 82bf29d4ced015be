package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore keeps results for the lifetime of the process.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.Result
	order   []string
}

// NewResultStore creates an empty in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.Result)}
}

// Save stores a copy of result.
func (s *ResultStore) Save(_ context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	r := *result
	r.Answers = append([]domain.Answer(nil), result.Answers...)
	s.results[result.ID] = r
	return nil
}

// Get retrieves a result by ID.
func (s *ResultStore) Get(_ context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// List returns results newest first; equal timestamps keep save order reversed.
func (s *ResultStore) List(_ context.Context, limit int) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Result, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.results[s.order[i]])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *ResultStore) Close() error {
	return nil
}
