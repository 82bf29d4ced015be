package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// fakeEmbedder maps text to a letter-frequency vector so that texts sharing
// words land close together.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	errs  []error // returned in order before succeeding
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, texts)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letterVector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string             { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

func letterVector(text string) []float32 {
	v := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			v[r-'a']++
		case unicode.IsDigit(r):
			v[26]++
		}
	}
	return v
}

// fakeCompleter replies with queued responses, or with the reply func.
type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	replies []string
	errs    []error
	reply   func(prompt string) string
	model   string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", "", err
		}
	}

	model := f.model
	if model == "" {
		model = "fake-model-v1"
	}
	if f.reply != nil {
		return f.reply(prompt), model, nil
	}
	if len(f.replies) == 0 {
		return "", model, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, model, nil
}

func (f *fakeCompleter) ModelName() string             { return "fake-model" }
func (f *fakeCompleter) Ping(_ context.Context) error { return nil }
func (f *fakeCompleter) Close() error                 { return nil }

// fakePrompts serves fixed templates.
type fakePrompts struct {
	templates map[string]string
}

func (f *fakePrompts) Load(name string) (string, error) {
	if t, ok := f.templates[name]; ok {
		return t, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakePrompts) Reload() {}

// noSleep records pauses without waiting.
type noSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (n *noSleep) sleep(_ context.Context, d time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delays = append(n.delays, d)
	return nil
}
