// Package flat provides an exact, in-memory vector index.
//
// Vectors are L2-normalised on insertion so the inner product equals cosine
// similarity. Search is a linear scan, which is fast enough for the hundreds
// to low thousands of chunks one incident report produces.
package flat

import (
	"fmt"
	"math"
	"slices"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores normalised vectors in insertion order.
// It is not safe for concurrent use.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// NewIndex returns a fresh index as the driven port, for use as a factory.
func NewIndex() driven.VectorIndex {
	return New()
}

// Build replaces the index contents.
// The index is left empty if any vector disagrees with the first one's length.
func (ix *Index) Build(vectors [][]float32) error {
	ix.dim = 0
	ix.vectors = nil

	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("%w: empty vector at position 0", domain.ErrDimensionMismatch)
	}

	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
		stored[i] = normalize(v)
	}

	ix.dim = dim
	ix.vectors = stored
	return nil
}

// Search returns the k best matches by descending score.
// Ties keep insertion order. k larger than Len returns every entry.
func (ix *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	if len(ix.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(query), ix.dim)
	}

	q := normalize(query)
	hits := make([]driven.VectorHit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = driven.VectorHit{Position: i, Score: dot(q, v)}
	}

	slices.SortStableFunc(hits, func(a, b driven.VectorHit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimensions returns the fixed vector length, or 0 when empty.
func (ix *Index) Dimensions() int {
	return ix.dim
}

// normalize returns a unit-length copy of v. A zero vector stays zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
