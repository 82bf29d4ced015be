package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["say"]})
	}))
	defer srv.Close()

	c := New("test", srv.URL+"/", time.Second, map[string]string{"x-api-key": "secret"})
	var out struct {
		Echo string `json:"echo"`
	}

	err := c.PostJSON(context.Background(), "/v1/echo", map[string]string{"say": "hola"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hola", out.Echo)
	assert.Equal(t, "test", c.Provider())
}

func TestGet_NilOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New("test", srv.URL, time.Second, nil)

	assert.NoError(t, c.Get(context.Background(), "/ping", nil))
}

func TestDo_Classifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test", srv.URL, time.Second, nil)
	err := c.Get(context.Background(), "/", nil)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 3*time.Second, domain.RetryAfterHint(err))
}

func TestDo_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	c := New("test", srv.URL, time.Second, nil)
	var out map[string]any
	err := c.Get(context.Background(), "/", &out)

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestDo_Unreachable(t *testing.T) {
	c := New("test", "http://127.0.0.1:1", time.Second, nil)

	err := c.Get(context.Background(), "/", nil)

	assert.ErrorIs(t, err, domain.ErrProvider)
}
