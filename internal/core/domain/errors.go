package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent pipeline failures independent of any backend.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrCompletionUnavailable indicates the completion provider is not configured.
	ErrCompletionUnavailable = errors.New("completion provider unavailable")

	// Provider Errors.

	// ErrRateLimited indicates the backend throttled the request.
	// It is the only error kind that is retried.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the backend rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrProvider indicates any other backend failure.
	ErrProvider = errors.New("provider error")

	// ErrRetriesExhausted indicates the retry budget ran out while rate limited.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// Index and Document Errors.

	// ErrDimensionMismatch indicates vectors of different lengths met in one index.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnsupportedDocument indicates no loader accepts the document format.
	ErrUnsupportedDocument = errors.New("unsupported document")
)

// RateLimitError is returned by providers when the backend throttles a call.
// RetryAfter is the backend's hint and may be zero.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	msg := e.Provider + ": rate limited"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrRateLimited as a match.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError carries the last error seen before giving up.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

// Is reports ErrRetriesExhausted as a match.
func (e *RetriesExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// AnalysisError aborts one document's analysis.
// Batch is -1 when the failure happened before batching started.
type AnalysisError struct {
	Document string
	Batch    int
	Stage    Stage
	Err      error
}

func (e *AnalysisError) Error() string {
	if e.Batch < 0 {
		return fmt.Sprintf("analyse %q: %s: %v", e.Document, e.Stage, e.Err)
	}
	return fmt.Sprintf("analyse %q: batch %d: %s: %v", e.Document, e.Batch+1, e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err should be retried by the backoff policy.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRetriesExhausted) {
		return false
	}
	return errors.Is(err, ErrRateLimited)
}

// RetryAfterHint extracts the backend retry hint from err, if any.
func RetryAfterHint(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}
