package ollama

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

func TestNewEmbeddingProvider_Defaults(t *testing.T) {
	p := NewEmbeddingProvider(Config{})

	assert.Equal(t, DefaultModel, p.ModelName())
}

func TestEmbed_Batch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, []string{"ship", "storm"}, req.Input)

		_ = json.NewEncoder(w).Encode(embedResponse{
			Model:      req.Model,
			Embeddings: [][]float64{{0.5, 0.5}, {1, 0}},
		})
	}))
	defer srv.Close()

	p := NewEmbeddingProvider(Config{BaseURL: srv.URL, Model: "all-minilm"})
	vecs, err := p.Embed(context.Background(), []string{"ship", "storm"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, 0.5}, {1, 0}}, vecs)
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1]]}`))
	}))
	defer srv.Close()

	p := NewEmbeddingProvider(Config{BaseURL: srv.URL})
	_, err := p.Embed(context.Background(), []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestEmbed_ModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	p := NewEmbeddingProvider(Config{BaseURL: srv.URL})
	_, err := p.Embed(context.Background(), []string{"a"})

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "model not found")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	p := NewEmbeddingProvider(Config{BaseURL: srv.URL})

	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close())
}
