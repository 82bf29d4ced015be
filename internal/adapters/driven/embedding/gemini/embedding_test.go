package gemini

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

	p, err := NewEmbeddingProvider(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func TestNewEmbeddingProvider_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingProvider(Config{})

	assert.Error(t, err)
}

func TestEmbed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/text-embedding-004:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))

		var req struct {
			Requests []struct {
				Model   string `json:"model"`
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 2)
		assert.Equal(t, "models/text-embedding-004", req.Requests[0].Model)
		assert.Equal(t, "bow", req.Requests[1].Content.Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[1,0]},{"values":[0,1]}]}`))
	})

	vecs, err := p.Embed(context.Background(), []string{"stern", "bow"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestEmbed_RateLimited(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := p.Embed(context.Background(), []string{"a"})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestPing(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/text-embedding-004", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"models/text-embedding-004"}`))
	})

	assert.NoError(t, p.Ping(context.Background()))
	assert.Equal(t, DefaultModel, p.ModelName())
}

func TestEmbed_CountMismatch(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[1,0]}]}`))
	})

	_, err := p.Embed(context.Background(), []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, "models/text-embedding-004", modelPath("text-embedding-004"))
	assert.Equal(t, "models/text-embedding-004", modelPath("models/text-embedding-004"))
}
