// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// ProgressReceived carries one stage event from the running analysis.
type ProgressReceived struct {
	Progress domain.Progress
}

// AnalysisFinished is sent once when the analysis returns.
type AnalysisFinished struct {
	Results []domain.Result
	Err     error
}

// ResultSelected opens the answers of one result.
type ResultSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewProgress shows the running analysis.
	ViewProgress ViewType = iota
	// ViewResults lists finished results.
	ViewResults
	// ViewAnswers shows the answers of one result.
	ViewAnswers
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewProgress:
		return "progress"
	case ViewResults:
		return "results"
	case ViewAnswers:
		return "answers"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
