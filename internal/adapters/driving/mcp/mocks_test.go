package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

type mockAnalysisService struct {
	paths   []string
	results []domain.Result
	err     error
}

func (m *mockAnalysisService) Analyze(context.Context, domain.Document, domain.ProgressFunc) (*domain.Result, error) {
	return nil, nil
}

func (m *mockAnalysisService) AnalyzeFiles(_ context.Context, paths []string, _ driving.AnalyzeOptions) ([]domain.Result, error) {
	m.paths = paths
	return m.results, m.err
}

func (m *mockAnalysisService) AnalyzeRaw(context.Context, []domain.RawDocument, driving.AnalyzeOptions) ([]domain.Result, error) {
	return nil, nil
}

func (m *mockAnalysisService) Questions() domain.QuestionSet {
	return domain.NewQuestionSet("maritime", []string{"When?", "Where?"})
}

type mockResultService struct {
	results []domain.Result
	limit   int
	err     error
}

func (m *mockResultService) List(_ context.Context, limit int) ([]domain.Result, error) {
	m.limit = limit
	return m.results, m.err
}

func (m *mockResultService) Get(_ context.Context, id string) (*domain.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.results {
		if m.results[i].ID == id {
			return &m.results[i], nil
		}
	}
	return nil, fmt.Errorf("result %s: %w", id, domain.ErrNotFound)
}

func sampleResult() domain.Result {
	set := domain.NewQuestionSet("maritime", []string{"When?", "Where?"})
	return domain.Result{
		ID:           "r-1",
		DocumentName: "report.pdf",
		ModelID:      "mistral-large-latest",
		Answers:      domain.BuildAnswers(set, domain.AnswerMap{1: "03:10 UTC"}),
	}
}
