package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// recordingSleep captures backoff delays without waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestCaller(maxRetries int, rec *recordingSleep, opts ...RetryOption) *RetryingCaller {
	opts = append([]RetryOption{WithSleep(rec.sleep)}, opts...)
	return NewRetryingCaller(domain.RetrySettings{MaxRetries: maxRetries, InitialDelay: 5 * time.Second}, opts...)
}

func TestRetryingCaller_SucceedsAfterRateLimits(t *testing.T) {
	rec := &recordingSleep{}
	caller := newTestCaller(7, rec)

	calls := 0
	err := caller.Call(context.Background(), func(context.Context) error {
		calls++
		if calls <= 3 {
			return &domain.RateLimitError{Provider: "stub"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, rec.delays)
}

func TestRetryingCaller_Exhausted(t *testing.T) {
	rec := &recordingSleep{}
	caller := newTestCaller(7, rec)

	calls := 0
	err := caller.Call(context.Background(), func(context.Context) error {
		calls++
		return domain.ErrRateLimited
	})

	require.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 7, calls)
	assert.Len(t, rec.delays, 6, "no sleep after the final attempt")
	assert.Equal(t, 160*time.Second, rec.delays[5])

	var exhausted *domain.RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 7, exhausted.Attempts)
	assert.ErrorIs(t, exhausted.Last, domain.ErrRateLimited)
}

func TestRetryingCaller_NonRetryablePropagates(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", domain.ErrAuthInvalid},
		{"provider", errors.Join(domain.ErrProvider, errors.New("500"))},
		{"plain", errors.New("boom")},
		{"exhausted from inner caller", &domain.RetriesExhaustedError{Attempts: 1, Last: domain.ErrRateLimited}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSleep{}
			caller := newTestCaller(7, rec)

			calls := 0
			err := caller.Call(context.Background(), func(context.Context) error {
				calls++
				return tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, calls)
			assert.Empty(t, rec.delays)
		})
	}
}

func TestRetryingCaller_UsesLongerRetryAfterHint(t *testing.T) {
	rec := &recordingSleep{}
	caller := newTestCaller(3, rec)

	calls := 0
	_ = caller.Call(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &domain.RateLimitError{Provider: "stub", RetryAfter: 30 * time.Second}
		}
		return &domain.RateLimitError{Provider: "stub", RetryAfter: time.Second}
	})

	assert.Equal(t, []time.Duration{30 * time.Second, 10 * time.Second}, rec.delays)
}

func TestRetryingCaller_CapsRetryAfterHint(t *testing.T) {
	rec := &recordingSleep{}
	caller := newTestCaller(3, rec)

	_ = caller.Call(context.Background(), func(context.Context) error {
		return &domain.RateLimitError{Provider: "stub", RetryAfter: 72 * time.Hour}
	})

	assert.Equal(t, []time.Duration{MaxRetryAfter, MaxRetryAfter}, rec.delays)
}

func TestRetryingCaller_HookSeesEachRetry(t *testing.T) {
	rec := &recordingSleep{}
	var attempts []int
	caller := newTestCaller(3, rec, WithRetryHook(func(attempt int, _ time.Duration, err error) {
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		attempts = append(attempts, attempt)
	}))

	_ = caller.Call(context.Background(), func(context.Context) error { return domain.ErrRateLimited })

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestRetryingCaller_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	caller := NewRetryingCaller(domain.RetrySettings{MaxRetries: 3, InitialDelay: time.Hour})
	err := caller.Call(ctx, func(context.Context) error { return domain.ErrRateLimited })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryingCaller_Defaults(t *testing.T) {
	caller := NewRetryingCaller(domain.RetrySettings{})
	assert.Equal(t, 7, caller.maxRetries)
	assert.Equal(t, 5*time.Second, caller.initialDelay)
}

func TestCallValue(t *testing.T) {
	rec := &recordingSleep{}
	caller := newTestCaller(7, rec)

	calls := 0
	v, err := callValue(context.Background(), caller, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", domain.ErrRateLimited
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
