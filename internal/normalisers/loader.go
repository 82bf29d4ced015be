package normalisers

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/normalisers/pdf"
	"github.com/custodia-labs/incident-rag/internal/normalisers/plaintext"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// MaxFileSize bounds the size of a single uploaded report.
const MaxFileSize = 64 << 20

// Loader dispatches files to normalisers by extension.
// When several normalisers claim an extension the highest priority wins.
type Loader struct {
	mu    sync.RWMutex
	byExt map[string]driven.Normaliser
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{byExt: make(map[string]driven.Normaliser)}
}

// Default returns a loader for PDF and plain text reports.
func Default() *Loader {
	l := NewLoader()
	l.Register(pdf.New())
	l.Register(plaintext.New())
	return l
}

// Register adds a normaliser for each extension it supports.
func (l *Loader) Register(n driven.Normaliser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ext := range n.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if cur, ok := l.byExt[ext]; ok && cur.Priority() >= n.Priority() {
			continue
		}
		l.byExt[ext] = n
	}
}

// SupportedExtensions returns every registered extension, sorted.
func (l *Loader) SupportedExtensions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	exts := make([]string, 0, len(l.byExt))
	for ext := range l.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supports reports whether path has a registered extension.
func (l *Loader) Supports(path string) bool {
	_, ok := l.lookup(path)
	return ok
}

// Load reads the file at path and extracts its text.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if _, ok := l.lookup(path); !ok {
		return nil, unsupported(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, path, MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return l.LoadRaw(ctx, &domain.RawDocument{
		Name:     filepath.Base(path),
		Path:     path,
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Content:  content,
	})
}

// LoadRaw extracts text from an already read file, chosen by its name.
func (l *Loader) LoadRaw(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	n, ok := l.lookup(raw.Name)
	if !ok {
		return nil, unsupported(raw.Name)
	}
	doc, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", raw.Name, err)
	}
	return doc, nil
}

func (l *Loader) lookup(name string) (driven.Normaliser, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n, ok := l.byExt[strings.ToLower(filepath.Ext(name))]
	return n, ok
}

func unsupported(name string) error {
	return fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, filepath.Base(name))
}
