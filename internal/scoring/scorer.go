// Package scoring provides pairwise query-text relevance scoring for the
// rerank and sentence-extraction stages.
package scoring

import "context"

// PairScorer scores a (query, text) pair; higher means more relevant.
// No fixed range is guaranteed: only relative ordering within one batch is
// meaningful. Implementations must be deterministic for identical input.
type PairScorer interface {
	Score(ctx context.Context, query, text string) (float64, error)
	Close() error
}
