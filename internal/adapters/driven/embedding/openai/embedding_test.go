package openai

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

func newTestProvider(t *testing.T, handler http.HandlerFunc) *EmbeddingProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewEmbeddingProvider(Config{
		Provider: "mistral",
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Model:    "mistral-embed",
	})
	require.NoError(t, err)
	return p
}

func TestNewEmbeddingProvider_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingProvider(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewEmbeddingProvider_Defaults(t *testing.T) {
	p, err := NewEmbeddingProvider(Config{APIKey: "k"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.ModelName())
	assert.Equal(t, "openai", p.provider)
}

func TestEmbed_OrdersByIndex(t *testing.T) {
	var got struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"mistral-embed","data":[
			{"object":"embedding","index":1,"embedding":[0,1]},
			{"object":"embedding","index":0,"embedding":[1,0]}]}`))
	})

	vecs, err := p.Embed(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	assert.Equal(t, "mistral-embed", got.Model)
	assert.Equal(t, []string{"first", "second"}, got.Input)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestEmbed_Empty(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	vecs, err := p.Embed(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbed_CountMismatch(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	})

	_, err := p.Embed(context.Background(), []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestEmbed_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: domain.ErrRateLimited},
		{name: "bad key", status: http.StatusUnauthorized, want: domain.ErrAuthInvalid},
		{name: "server error", status: http.StatusInternalServerError, want: domain.ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"failure","type":"error"}}`))
			})

			_, err := p.Embed(context.Background(), []string{"a"})

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPing(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close())
}
