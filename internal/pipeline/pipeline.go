// Package pipeline implements the two-stage persona relevance pipeline:
// vector recall over chunk embeddings, pairwise reranking of the recalled
// candidates, and sentence-level extraction within the winners.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/midashi/internal/config"
	"github.com/hyperjump/midashi/internal/embedding"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/scoring"
	"github.com/hyperjump/midashi/internal/vector"
	"github.com/hyperjump/midashi/pkg/utils"
)

// logTextLen bounds chunk and sentence text echoed into warning logs.
const logTextLen = 80

// ErrEmptyQuery is returned before any chunk is touched when the persona
// query carries neither a role nor a task.
var ErrEmptyQuery = errors.New("persona query requires a role or a task")

// Pipeline ranks chunks against a persona query. Given identical chunks,
// query, and configuration it produces identical output: all sorts are
// stable and all tie-breaks explicit.
type Pipeline struct {
	embedder embedding.Embedder
	scorer   scoring.PairScorer
	cfg      *config.PipelineConfig
	logger   *zap.Logger
}

// New creates a Pipeline with the given dependencies.
func New(embedder embedding.Embedder, scorer scoring.PairScorer, cfg *config.PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		embedder: embedder,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Rank runs recall, rerank, and sentence extraction over chunks and returns
// up to TopN ranked chunks in final output order. Chunks that fail to embed
// or score are excluded and logged, never fatal to the run.
func (p *Pipeline) Rank(ctx context.Context, query models.PersonaQuery, chunks []models.Chunk) ([]models.RankedChunk, error) {
	if err := query.Validate(); err != nil {
		return nil, ErrEmptyQuery
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	queryText := query.QueryString()
	queryVec, err := p.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := p.recall(ctx, queryVec, chunks)
	if err != nil {
		return nil, err
	}

	reranked := p.rerank(ctx, queryText, candidates)
	if len(reranked) > p.cfg.TopN {
		reranked = reranked[:p.cfg.TopN]
	}

	out := make([]models.RankedChunk, 0, len(reranked))
	for _, sc := range reranked {
		out = append(out, models.RankedChunk{
			Chunk:       sc.chunk,
			Score:       sc.score,
			RefinedText: p.refineSentences(ctx, queryText, sc.chunk),
		})
	}
	return out, nil
}

// recall embeds all chunks with bounded parallelism, indexes them, and
// returns the TopK nearest chunks in similarity order. The index is built
// fresh and only read afterwards.
func (p *Pipeline) recall(ctx context.Context, queryVec []float32, chunks []models.Chunk) ([]models.Chunk, error) {
	vecs := p.embedChunks(ctx, chunks)

	index, err := vector.NewMemoryIndex(p.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	defer index.Close()

	byID := make(map[string]models.Chunk)
	var ids []string
	var vectors [][]float32
	for i, vec := range vecs {
		if vec == nil {
			continue
		}
		ids = append(ids, chunks[i].ID)
		vectors = append(vectors, vec)
		byID[chunks[i].ID] = chunks[i]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := index.Add(ctx, ids, vectors); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	hits, err := index.Search(ctx, queryVec, p.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	candidates := make([]models.Chunk, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, byID[hit.ID])
	}
	return candidates, nil
}

// embedChunks fans the embedding calls out over a bounded worker pool.
// Results are written by chunk index, so ordering never depends on
// completion order. A chunk with empty text or a failed embedding gets a
// nil vector and is excluded from recall.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []models.Chunk) [][]float32 {
	vecs := make([][]float32, len(chunks))
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				chunk := chunks[i]
				if strings.TrimSpace(chunk.Text) == "" {
					p.logger.Warn("chunk has no text, excluded from recall",
						zap.String("chunk", chunk.ID),
						zap.String("document", chunk.DocumentID))
					continue
				}
				vec, err := p.embedder.Embed(ctx, chunk.Text)
				if err != nil {
					p.logger.Warn("chunk embedding failed, excluded from recall",
						zap.String("chunk", chunk.ID),
						zap.String("document", chunk.DocumentID),
						zap.String("text", utils.Truncate(chunk.Text, logTextLen)),
						zap.Error(err))
					continue
				}
				vecs[i] = vec
			}
		}()
	}
	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return vecs
}

type scoredChunk struct {
	chunk models.Chunk
	score float64
}

// rerank scores each candidate pair-wise against the query and sorts by
// descending score. The sort is stable, so equal scores keep recall order,
// which in turn encodes document and page order.
func (p *Pipeline) rerank(ctx context.Context, queryText string, candidates []models.Chunk) []scoredChunk {
	scored := make([]scoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		score, err := p.scorer.Score(ctx, queryText, chunk.Text)
		if err != nil {
			p.logger.Warn("chunk scoring failed, excluded from ranking",
				zap.String("chunk", chunk.ID),
				zap.String("text", utils.Truncate(chunk.Text, logTextLen)),
				zap.Error(err))
			continue
		}
		scored = append(scored, scoredChunk{chunk: chunk, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

// refineSentences scores the chunk's sentences against the query, keeps the
// TopM best, and joins them in their original in-chunk order so the refined
// text reads coherently.
func (p *Pipeline) refineSentences(ctx context.Context, queryText string, chunk models.Chunk) string {
	m := p.cfg.TopM
	if len(chunk.Sentences) <= m {
		return strings.Join(chunk.Sentences, " ")
	}

	type scoredSentence struct {
		index int
		score float64
	}
	scored := make([]scoredSentence, 0, len(chunk.Sentences))
	for i, sentence := range chunk.Sentences {
		score, err := p.scorer.Score(ctx, queryText, sentence)
		if err != nil {
			p.logger.Warn("sentence scoring failed, excluded from refinement",
				zap.String("chunk", chunk.ID),
				zap.String("sentence", utils.Truncate(sentence, logTextLen)),
				zap.Error(err))
			continue
		}
		scored = append(scored, scoredSentence{index: i, score: score})
	}
	if len(scored) == 0 {
		// Scorer rejected everything; fall back to the leading sentences.
		return strings.Join(chunk.Sentences[:m], " ")
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > m {
		scored = scored[:m]
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].index < scored[j].index })

	parts := make([]string, len(scored))
	for i, s := range scored {
		parts[i] = chunk.Sentences[s.index]
	}
	return strings.Join(parts, " ")
}
