package services

import (
	"context"
	"time"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

// MaxRetryAfter bounds how long a server Retry-After hint can stretch a wait.
const MaxRetryAfter = 5 * time.Minute

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryHook observes a rate-limited attempt before the caller sleeps.
type RetryHook func(attempt int, delay time.Duration, err error)

// RetryingCaller retries calls that fail with domain.ErrRateLimited using
// exponential backoff without jitter. Every other error is returned at once.
//
// A caller holds no state between calls, but each analysis should still get
// its own instance so hooks are not shared across documents.
type RetryingCaller struct {
	maxRetries   int
	initialDelay time.Duration
	sleep        SleepFunc
	onRetry      RetryHook
}

// RetryOption configures a RetryingCaller.
type RetryOption func(*RetryingCaller)

// WithSleep replaces the wait between attempts. Intended for tests.
func WithSleep(fn SleepFunc) RetryOption {
	return func(c *RetryingCaller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithRetryHook registers a hook called before each backoff sleep.
func WithRetryHook(fn RetryHook) RetryOption {
	return func(c *RetryingCaller) {
		c.onRetry = fn
	}
}

// NewRetryingCaller creates a caller from the retry settings.
// Non-positive values fall back to the defaults (7 attempts, 5s).
func NewRetryingCaller(settings domain.RetrySettings, opts ...RetryOption) *RetryingCaller {
	c := &RetryingCaller{
		maxRetries:   settings.MaxRetries,
		initialDelay: settings.InitialDelay,
		sleep:        sleepContext,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = domain.DefaultMaxRetries
	}
	if c.initialDelay <= 0 {
		c.initialDelay = domain.DefaultInitialDelay
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call runs fn until it succeeds, fails with a non-retryable error,
// or the attempt budget is spent.
func (c *RetryingCaller) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := c.initialDelay
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}

		wait := delay
		if hint := domain.RetryAfterHint(err); hint > wait {
			wait = max(wait, min(hint, MaxRetryAfter))
		}

		logger.Warn("rate limited (attempt %d/%d), retrying in %s", attempt, c.maxRetries, wait)
		if c.onRetry != nil {
			c.onRetry(attempt, wait, err)
		}

		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		delay *= 2
	}

	return &domain.RetriesExhaustedError{Attempts: c.maxRetries, Last: lastErr}
}

// callValue is Call for functions that return a value.
func callValue[T any](ctx context.Context, c *RetryingCaller, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Call(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
