// Package chunker provides a fixed-width text chunking processor.
package chunker

import (
	"context"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor splits document text into contiguous, non-overlapping windows.
// There is no sentence or word boundary awareness.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window width.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the document text into positioned chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	windows := Chunk(doc.Text, p.chunkSize)
	chunks := make([]domain.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = domain.Chunk{Position: i, Content: w}
	}
	return chunks, nil
}

// Chunk splits text into windows of at most maxLength characters.
// Every window but the last has exactly maxLength characters, and joining
// the windows reproduces text. Empty text yields no windows.
// A non-positive maxLength falls back to DefaultChunkSize.
func Chunk(text string, maxLength int) []string {
	if text == "" {
		return nil
	}
	if maxLength <= 0 {
		maxLength = DefaultChunkSize
	}

	// Count in runes so multi-byte characters are never split.
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/maxLength+1)

	for start := 0; start < len(runes); start += maxLength {
		end := start + maxLength
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
