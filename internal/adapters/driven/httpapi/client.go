// Package httpapi sends JSON requests to AI backends that have no Go SDK
// in this module and classifies the responses.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/apierr"
)

// maxResponseBytes bounds a response body read.
const maxResponseBytes = 32 << 20

// Client is a JSON client bound to one backend.
type Client struct {
	http     *http.Client
	provider string
	baseURL  string
	headers  http.Header
}

// New creates a client for provider at baseURL. Headers are sent with every request.
func New(provider, baseURL string, timeout time.Duration, headers map[string]string) *Client {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		headers:  h,
	}
}

// Provider returns the backend name used in errors.
func (c *Client) Provider() string {
	return c.provider
}

// PostJSON sends in as JSON to path and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Get fetches path and decodes the response into out, which may be nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.Transport(c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apierr.Transport(c.provider, err)
	}
	if err := apierr.FromStatus(c.provider, resp.StatusCode, resp.Header, body); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierr.Malformed(c.provider, "decode response: %v", err)
	}
	return nil
}
