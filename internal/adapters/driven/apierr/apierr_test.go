package apierr

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "too many requests", status: http.StatusTooManyRequests, want: domain.ErrRateLimited},
		{name: "unauthorised", status: http.StatusUnauthorized, want: domain.ErrAuthInvalid},
		{name: "forbidden", status: http.StatusForbidden, want: domain.ErrAuthInvalid},
		{name: "bad request", status: http.StatusBadRequest, want: domain.ErrProvider},
		{name: "server error", status: http.StatusInternalServerError, want: domain.ErrProvider},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: domain.ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus("openai", tt.status, nil, []byte(`{"error":"nope"}`))

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "openai")
		})
	}
}

func TestFromStatus_Success(t *testing.T) {
	assert.NoError(t, FromStatus("openai", http.StatusOK, nil, nil))
	assert.NoError(t, FromStatus("openai", http.StatusNoContent, nil, nil))
}

func TestFromStatus_OnlyRateLimitIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(FromStatus("x", http.StatusTooManyRequests, nil, nil)))
	assert.False(t, domain.IsRetryable(FromStatus("x", http.StatusUnauthorized, nil, nil)))
	assert.False(t, domain.IsRetryable(FromStatus("x", http.StatusBadGateway, nil, nil)))
}

func TestFromStatus_RetryAfterHeader(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "12")

	err := FromStatus("groq", http.StatusTooManyRequests, header, nil)

	var rl *domain.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "groq", rl.Provider)
	assert.Equal(t, 12*time.Second, rl.RetryAfter)
	assert.Equal(t, 12*time.Second, domain.RetryAfterHint(err))
}

func TestFromStatus_TruncatesBody(t *testing.T) {
	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'x'
	}

	err := FromStatus("cohere", http.StatusBadRequest, nil, body)

	assert.Less(t, len(err.Error()), 400)
	assert.Contains(t, err.Error(), "...")
}

func TestExcerpt_CutsOnRuneBoundary(t *testing.T) {
	// "x" then two-byte runes, so byte 300 falls inside "ñ".
	body := []byte("x" + strings.Repeat("ñ", 400))

	got := excerpt(body)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "x"+strings.Repeat("ñ", 149)+"...", got)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty", value: "", want: 0},
		{name: "seconds", value: "30", want: 30 * time.Second},
		{name: "fractional seconds", value: "1.5", want: 1500 * time.Millisecond},
		{name: "zero", value: "0", want: 0},
		{name: "negative", value: "-4", want: 0},
		{name: "garbage", value: "soon", want: 0},
		{name: "past date", value: "Wed, 21 Oct 2015 07:28:00 GMT", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRetryAfter(tt.value))
		})
	}
}

func TestParseRetryAfter_FutureDate(t *testing.T) {
	at := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)

	got := ParseRetryAfter(at)

	assert.InDelta(t, float64(90*time.Second), float64(got), float64(2*time.Second))
}

func TestTransport(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Transport("ollama", nil))
	})

	t.Run("network error becomes provider error", func(t *testing.T) {
		err := Transport("ollama", errors.New("connection refused"))
		assert.ErrorIs(t, err, domain.ErrProvider)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		err := Transport("ollama", context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrProvider)
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		rl := &domain.RateLimitError{Provider: "ollama"}
		err := Transport("ollama", rl)
		assert.Same(t, rl, err)
	})
}

func TestMalformed(t *testing.T) {
	err := Malformed("gemini", "expected %d vectors, got %d", 3, 1)

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "expected 3 vectors, got 1")
}
