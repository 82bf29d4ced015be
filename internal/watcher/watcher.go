// Package watcher runs an analysis for every incident report dropped into a
// folder.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/incident-rag/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is handled.
const DefaultSettle = time.Second

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("watcher closed")

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Config configures a Watcher.
type Config struct {
	// Dir is the folder to watch. Subfolders are ignored.
	Dir string

	// Accept filters paths; nil accepts every visible file.
	Accept func(path string) bool

	// Handler is called once per settled file, never concurrently.
	Handler Handler

	// Settle defaults to DefaultSettle.
	Settle time.Duration
}

// Watcher dispatches new or rewritten files in a folder to a Handler.
type Watcher struct {
	cfg Config

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// New validates cfg and returns an idle watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("watch directory is required")
	}
	if cfg.Handler == nil {
		return nil, errors.New("watch handler is required")
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	return &Watcher{cfg: cfg}, nil
}

// Run blocks until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.cfg.Dir)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.cfg.Dir); err != nil {
		w.mu.Unlock()
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.fsw = fsw
	w.mu.Unlock()
	defer w.Close()

	logger.Info("Watching %s", w.cfg.Dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.cfg.Settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return ErrClosed
			}
			if path, ok := w.relevant(event); ok {
				pending[path] = time.Now()
			} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				delete(pending, filepath.Clean(event.Name))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return ErrClosed
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.cfg.Settle) {
				delete(pending, path)
				w.dispatch(ctx, path)
			}
		}
	}
}

// Close stops a running watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		logger.Debug("skip %s: %v", path, err)
		return
	}
	logger.Info("Processing %s", filepath.Base(path))
	if err := w.cfg.Handler(ctx, path); err != nil {
		logger.Error("%s: %v", filepath.Base(path), err)
	}
}

// relevant reports whether event should schedule path for handling.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	path := filepath.Clean(event.Name)
	if isHidden(filepath.Base(path)) {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if w.cfg.Accept != nil && !w.cfg.Accept(path) {
		return "", false
	}
	return path, true
}

// settled returns the paths whose last event is at least settle old,
// oldest first.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var out []string
	for path, at := range pending {
		if now.Sub(at) >= settle {
			out = append(out, path)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return pending[a].Compare(pending[b])
	})
	return out
}

// isHidden matches dotfiles and editor temp files such as "~$report.docx".
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~")
}
