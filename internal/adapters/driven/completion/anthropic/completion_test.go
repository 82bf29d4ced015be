package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestNewCompletionProvider(t *testing.T) {
	_, err := NewCompletionProvider(Config{})
	require.Error(t, err)

	p, err := NewCompletionProvider(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.ModelName())
	assert.Equal(t, DefaultMaxTokens, p.maxTokens)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-5-haiku-latest", req.Model)
		assert.Equal(t, 2048, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"model":"claude-3-5-haiku-20241022","content":[
			{"type":"text","text":"1. Yes"},{"type":"tool_use"},{"type":"text","text":"\n2. No"}]}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL, Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)

	text, model, err := p.Complete(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "1. Yes\n2. No", text)
	assert.Equal(t, "claude-3-5-haiku-20241022", model)
}

func TestComplete_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, _, err = p.Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestComplete_Overloaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("retry-after", "20")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, _, err = p.Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Positive(t, domain.RetryAfterHint(err))
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	assert.ErrorIs(t, p.Ping(context.Background()), domain.ErrAuthInvalid)
}
