package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// RetrievedChunk is a chunk returned by a similarity search.
type RetrievedChunk struct {
	Chunk domain.Chunk
	Score float64
}

// ChunkIndex keeps chunk texts parallel to the vectors of a VectorIndex.
type ChunkIndex struct {
	index  driven.VectorIndex
	chunks []domain.Chunk
}

// NewChunkIndex wraps an empty vector index.
func NewChunkIndex(index driven.VectorIndex) *ChunkIndex {
	return &ChunkIndex{index: index}
}

// Build replaces the index contents. chunks and vectors must be parallel.
func (c *ChunkIndex) Build(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	c.chunks = nil
	if err := c.index.Build(vectors); err != nil {
		return err
	}
	c.chunks = chunks
	return nil
}

// Search returns the k chunks most similar to query.
func (c *ChunkIndex) Search(query []float32, k int) ([]RetrievedChunk, error) {
	hits, err := c.index.Search(query, k)
	if err != nil {
		return nil, err
	}

	out := make([]RetrievedChunk, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(c.chunks) {
			continue
		}
		out = append(out, RetrievedChunk{Chunk: c.chunks[h.Position], Score: h.Score})
	}
	return out, nil
}

// Len returns the number of indexed chunks.
func (c *ChunkIndex) Len() int {
	return len(c.chunks)
}

// embedAll embeds texts in sub-batches of batchSize, retrying each call.
func embedAll(
	ctx context.Context,
	caller *RetryingCaller,
	embedder driven.EmbeddingProvider,
	texts []string,
	batchSize int,
) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = domain.DefaultEmbedBatchSize
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		part := texts[start:end]

		vectors, err := callValue(ctx, caller, func(ctx context.Context) ([][]float32, error) {
			return embedder.Embed(ctx, part)
		})
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(part) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrProvider, len(vectors), len(part))
		}
		out = append(out, vectors...)
	}
	return out, nil
}
