package driving

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// AnalyzeOptions controls a multi-file analysis run.
type AnalyzeOptions struct {
	// Combine analyses all files as one document set instead of one by one.
	Combine bool

	// Progress receives stage events; nil disables reporting.
	Progress domain.ProgressFunc
}

// AnalysisService runs the question battery over incident reports.
type AnalysisService interface {
	// Analyze answers every question about one document.
	// Any error other than a retried rate limit aborts the document.
	Analyze(ctx context.Context, doc domain.Document, progress domain.ProgressFunc) (*domain.Result, error)

	// AnalyzeFiles loads, analyses and records each file in order.
	// It stops at the first failing document.
	AnalyzeFiles(ctx context.Context, paths []string, opts AnalyzeOptions) ([]domain.Result, error)

	// AnalyzeRaw analyses uploaded file bodies that are already in memory.
	AnalyzeRaw(ctx context.Context, raws []domain.RawDocument, opts AnalyzeOptions) ([]domain.Result, error)

	// Questions returns the question set used for every analysis.
	Questions() domain.QuestionSet
}
