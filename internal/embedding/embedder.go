// Package embedding provides text embedding via ONNX with a deterministic
// built-in fallback, plus LRU caching.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text.
// Implementations must be deterministic: the same text always yields the
// same vector. Returned vectors are L2-normalized so inner product equals
// cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
