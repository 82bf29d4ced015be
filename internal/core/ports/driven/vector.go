package driven

// VectorIndex holds normalised vectors for exact similarity search.
// An index is built fresh per analysis and never persisted.
// It is not safe for concurrent use.
type VectorIndex interface {
	// Build replaces the contents with vectors, normalised to unit length.
	// All vectors must share the dimension of the first one.
	Build(vectors [][]float32) error

	// Search returns the top k hits by descending inner product.
	// Ties go to the earlier inserted vector. An empty index returns nil.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the fixed vector length, or 0 when empty.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the insertion position of the matched vector.
	Position int

	// Score is the inner product of the normalised vectors.
	Score float64
}
