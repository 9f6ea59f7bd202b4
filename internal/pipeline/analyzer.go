package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/midashi/internal/assemble"
	"github.com/hyperjump/midashi/internal/chunker"
	"github.com/hyperjump/midashi/internal/config"
	"github.com/hyperjump/midashi/internal/embedding"
	"github.com/hyperjump/midashi/internal/extract"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/outline"
	"github.com/hyperjump/midashi/internal/scoring"
)

// ErrNoDocuments is returned when no document in the input set could be
// read at all.
var ErrNoDocuments = errors.New("no readable documents in input set")

// Analyzer runs the full batch flow: extract documents, reconstruct their
// outlines, chunk by headings, rank against the persona query, and assemble
// the output. The CLI and the HTTP server share one Analyzer.
type Analyzer struct {
	extractor     *extract.Extractor
	reconstructor *outline.Reconstructor
	chunker       *chunker.Chunker
	pipeline      *Pipeline
	assembler     *assemble.Assembler
	logger        *zap.Logger
}

// NewAnalyzer wires an Analyzer from configuration and the model-backed
// components.
func NewAnalyzer(cfg *config.Config, embedder embedding.Embedder, scorer scoring.PairScorer, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		extractor:     extract.NewExtractor(),
		reconstructor: outline.NewReconstructor(),
		chunker:       chunker.New(cfg.Chunking.MaxChunkTokens),
		pipeline:      New(embedder, scorer, &cfg.Pipeline, logger),
		assembler:     assemble.New(),
		logger:        logger,
	}
}

// OutlineFile extracts one PDF and reconstructs its heading outline.
func (a *Analyzer) OutlineFile(path string) (*models.Outline, error) {
	doc, err := a.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return a.reconstructor.Reconstruct(doc), nil
}

// OutlineContent reconstructs the outline of a PDF held in memory.
func (a *Analyzer) OutlineContent(content []byte, name string) (*models.Outline, error) {
	doc, err := a.extractor.Extract(content, name)
	if err != nil {
		return nil, err
	}
	return a.reconstructor.Reconstruct(doc), nil
}

// AnalyzeDir runs analysis over every PDF in dir. An empty directory is an
// input error; the persona query is validated before any document is read.
func (a *Analyzer) AnalyzeDir(ctx context.Context, dir string, query models.PersonaQuery) (*models.AnalysisResult, error) {
	paths, err := extract.FindPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s", dir)
	}
	return a.AnalyzePaths(ctx, paths, query)
}

// AnalyzePaths runs analysis over an explicit, ordered list of PDF paths.
// Documents that fail to parse are skipped with a warning; the run fails
// only when none survive.
func (a *Analyzer) AnalyzePaths(ctx context.Context, paths []string, query models.PersonaQuery) (*models.AnalysisResult, error) {
	if err := query.Validate(); err != nil {
		return nil, ErrEmptyQuery
	}

	var docNames []string
	var chunks []models.Chunk
	for _, path := range paths {
		doc, err := a.extractor.ExtractFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable document",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		ol := a.reconstructor.Reconstruct(doc)
		docNames = append(docNames, doc.Name)
		chunks = append(chunks, a.chunker.Chunk(doc, ol)...)
	}
	if len(docNames) == 0 {
		return nil, ErrNoDocuments
	}

	ranked, err := a.pipeline.Rank(ctx, query, chunks)
	if err != nil {
		return nil, err
	}
	return a.assembler.Assemble(query, docNames, ranked), nil
}
