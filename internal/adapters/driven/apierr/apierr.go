// Package apierr classifies AI backend failures into domain errors.
//
// Every provider adapter funnels its HTTP status codes through FromStatus so
// that the retry policy only ever sees domain.ErrRateLimited,
// domain.ErrAuthInvalid or domain.ErrProvider.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// maxBodyExcerpt bounds how much of an error body ends up in a message.
const maxBodyExcerpt = 300

// FromStatus maps an HTTP status to a classified error.
// Returns nil for 2xx statuses.
func FromStatus(provider string, status int, header http.Header, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	detail := excerpt(body)
	switch status {
	case http.StatusTooManyRequests:
		var retryAfter time.Duration
		if header != nil {
			retryAfter = ParseRetryAfter(header.Get("Retry-After"))
		}
		var cause error
		if detail != "" {
			cause = errors.New(detail)
		}
		return &domain.RateLimitError{Provider: provider, RetryAfter: retryAfter, Err: cause}
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s (status %d): %s", domain.ErrAuthInvalid, provider, status, detail)
	default:
		return fmt.Errorf("%w: %s (status %d): %s", domain.ErrProvider, provider, status, detail)
	}
}

// Transport classifies a failure that happened before a status was received.
// Context cancellation passes through untouched.
func Transport(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrAuthInvalid) ||
		errors.Is(err, domain.ErrProvider) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrProvider, provider, err)
}

// Malformed reports a response that could not be understood.
func Malformed(provider, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrProvider, provider, fmt.Sprintf(format, args...))
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
// Unparseable or past values yield zero.
func ParseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs * float64(time.Second))
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxBodyExcerpt {
		return s
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
