package ai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure the decorators implement the ports.
var (
	_ driven.EmbeddingProvider  = (*ThrottledEmbedder)(nil)
	_ driven.CompletionProvider = (*ThrottledCompleter)(nil)
)

// Limiter spaces provider calls with a token bucket and holds further
// calls back after the backend sends a retry hint.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewLimiter allows requestsPerMinute calls per minute with a burst of one.
// Zero or negative disables the token bucket.
func NewLimiter(requestsPerMinute int) *Limiter {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Wait blocks until a call may be made.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := retryAt.Sub(l.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Record pauses the limiter when err carries a backend retry hint.
func (l *Limiter) Record(err error) {
	hint := domain.RetryAfterHint(err)
	if hint <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if at := l.now().Add(hint); at.After(l.retryAt) {
		l.retryAt = at
	}
}

// ThrottledEmbedder applies a Limiter to an embedding provider.
type ThrottledEmbedder struct {
	inner   driven.EmbeddingProvider
	limiter *Limiter
}

// NewThrottledEmbedder wraps inner.
func NewThrottledEmbedder(inner driven.EmbeddingProvider, limiter *Limiter) *ThrottledEmbedder {
	return &ThrottledEmbedder{inner: inner, limiter: limiter}
}

// Embed waits for the limiter, then delegates.
func (t *ThrottledEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := t.inner.Embed(ctx, texts)
	if err != nil {
		t.limiter.Record(err)
	}
	return vecs, err
}

// ModelName delegates.
func (t *ThrottledEmbedder) ModelName() string { return t.inner.ModelName() }

// Ping delegates without consuming a token.
func (t *ThrottledEmbedder) Ping(ctx context.Context) error { return t.inner.Ping(ctx) }

// Close delegates.
func (t *ThrottledEmbedder) Close() error { return t.inner.Close() }

// ThrottledCompleter applies a Limiter to a completion provider.
type ThrottledCompleter struct {
	inner   driven.CompletionProvider
	limiter *Limiter
}

// NewThrottledCompleter wraps inner.
func NewThrottledCompleter(inner driven.CompletionProvider, limiter *Limiter) *ThrottledCompleter {
	return &ThrottledCompleter{inner: inner, limiter: limiter}
}

// Complete waits for the limiter, then delegates.
func (t *ThrottledCompleter) Complete(ctx context.Context, prompt string) (string, string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", "", err
	}
	text, model, err := t.inner.Complete(ctx, prompt)
	if err != nil {
		t.limiter.Record(err)
	}
	return text, model, err
}

// ModelName delegates.
func (t *ThrottledCompleter) ModelName() string { return t.inner.ModelName() }

// Ping delegates without consuming a token.
func (t *ThrottledCompleter) Ping(ctx context.Context) error { return t.inner.Ping(ctx) }

// Close delegates.
func (t *ThrottledCompleter) Close() error { return t.inner.Close() }
