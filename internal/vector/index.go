// Package vector provides vector indexing and similarity search over
// normalized embeddings.
package vector

import "context"

// Index is a build-then-freeze vector index: vectors are added during the
// build phase and the index is only read afterwards. It holds no state
// across invocations.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns up to k hits ordered by descending similarity.
	// Ties preserve insertion order so results are deterministic.
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Close() error
}

// Result is a single vector search hit.
type Result struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}
