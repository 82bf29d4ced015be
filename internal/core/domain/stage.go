package domain

import "time"

// Stage is a step of one document's analysis.
type Stage string

// Analysis stages in the order they occur. The batch stages repeat per batch.
const (
	StageUploaded   Stage = "uploaded"
	StageChunked    Stage = "chunked"
	StageIndexed    Stage = "indexed"
	StageEmbedding  Stage = "embedding"
	StageRetrieving Stage = "retrieving"
	StagePrompting  Stage = "prompting"
	StageCompleting Stage = "completing"
	StageParsing    Stage = "parsing"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions follow.
func (s Stage) IsTerminal() bool {
	return s == StageComplete || s == StageFailed
}

// Progress reports one step of an analysis to an observer.
type Progress struct {
	Document     string
	Stage        Stage
	Batch        int
	TotalBatches int

	// Attempt, Delay and Err are set when a rate-limited call is retried.
	Attempt int
	Delay   time.Duration
	Err     error
}

// ProgressFunc receives progress events. It must not block for long.
type ProgressFunc func(Progress)
