package cohere

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

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, "the prompt", req.Message)

		_, _ = w.Write([]byte(`{"text":"1. 03:40 UTC","generation_id":"g1","finish_reason":"COMPLETE"}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	text, model, err := p.Complete(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, "1. 03:40 UTC", text)
	assert.Equal(t, DefaultModel, model)
}

func TestComplete_TrialLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You are using a Trial key"}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, _, err = p.Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestNewCompletionProvider_RequiresKey(t *testing.T) {
	_, err := NewCompletionProvider(Config{})

	assert.Error(t, err)
}
