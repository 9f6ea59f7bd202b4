package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/midashi/internal/config"
	"github.com/hyperjump/midashi/internal/embedding"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/scoring"
)

func testPipeline(cfg *config.PipelineConfig) *Pipeline {
	if cfg == nil {
		cfg = &config.PipelineConfig{TopK: 20, TopN: 10, TopM: 3, Workers: 4}
	}
	return New(embedding.NewHashingEmbedder(128), scoring.NewLexicalScorer(), cfg, nil)
}

func testChunks() []models.Chunk {
	texts := []string{
		"The old town has excellent seafood restaurants. Reservations are recommended in summer. Ask for the daily catch.",
		"Book hotels early in the high season. Prices rise sharply near the waterfront. Boutique hotels line the harbor.",
		"The museum of maritime history opens daily. Exhibits cover shipbuilding and trade routes. Admission is free on Mondays.",
		"Coastal hiking trails connect the villages. Trails are marked with blue signs. Sturdy shoes are essential.",
		"Quarterly financial statements require careful review. The audit committee meets twice a year. Compliance deadlines are strict.",
	}
	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{
			ID:         fmt.Sprintf("guide.pdf_%04d", i),
			DocumentID: "guide.pdf",
			Heading:    fmt.Sprintf("Section %d", i+1),
			Level:      models.LevelH1,
			PageStart:  i + 1,
			PageEnd:    i + 1,
			Text:       text,
			Sentences:  strings.Split(text, ". "),
		}
	}
	return chunks
}

func TestRankEmptyQuery(t *testing.T) {
	p := testPipeline(nil)
	_, err := p.Rank(context.Background(), models.PersonaQuery{}, testChunks())
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	p := testPipeline(nil)
	ranked, err := p.Rank(context.Background(), models.PersonaQuery{Role: "Traveler"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 0 {
		t.Errorf("expected no results, got %d", len(ranked))
	}
}

func TestRankReturnsAllWhenCorpusSmall(t *testing.T) {
	p := testPipeline(nil)
	query := models.PersonaQuery{Role: "Travel Planner", Task: "find seafood restaurants"}
	ranked, err := p.Rank(context.Background(), query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 5 {
		t.Fatalf("got %d results, want all 5", len(ranked))
	}
	if !strings.Contains(ranked[0].Chunk.Text, "seafood") {
		t.Errorf("top chunk should mention seafood: %q", ranked[0].Chunk.Text)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores must not increase: %v after %v", ranked[i].Score, ranked[i-1].Score)
		}
	}
}

func TestRankHonorsTopN(t *testing.T) {
	cfg := &config.PipelineConfig{TopK: 4, TopN: 2, TopM: 3, Workers: 2}
	p := testPipeline(cfg)
	query := models.PersonaQuery{Task: "plan coastal hiking"}
	ranked, err := p.Rank(context.Background(), query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Errorf("got %d results, want TopN=2", len(ranked))
	}
}

func TestRankDeterministic(t *testing.T) {
	query := models.PersonaQuery{Role: "Travel Planner", Task: "plan a coastal trip"}
	first, err := testPipeline(nil).Rank(context.Background(), query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := testPipeline(nil).Rank(context.Background(), query, testChunks())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i+1)
		}
	}
}

func TestRefinedTextSentenceOrder(t *testing.T) {
	p := testPipeline(&config.PipelineConfig{TopK: 5, TopN: 5, TopM: 2, Workers: 1})
	query := models.PersonaQuery{Task: "seafood restaurants reservations"}
	ranked, err := p.Rank(context.Background(), query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	for _, rc := range ranked {
		if rc.RefinedText == "" {
			t.Errorf("chunk %s: empty refined text", rc.Chunk.ID)
			continue
		}
		// Selected sentences must appear in their original order.
		pos := -1
		for _, sentence := range rc.Chunk.Sentences {
			idx := strings.Index(rc.RefinedText, sentence)
			if idx < 0 {
				continue
			}
			if idx < pos {
				t.Errorf("chunk %s: sentences out of order in %q", rc.Chunk.ID, rc.RefinedText)
			}
			pos = idx
		}
	}
}

func TestRefinedTextShortChunkKeepsAll(t *testing.T) {
	p := testPipeline(nil)
	chunk := models.Chunk{
		ID: "doc_0001", DocumentID: "doc.pdf", Heading: "Short", Text: "Only sentence here.",
		Sentences: []string{"Only sentence here."},
	}
	got := p.refineSentences(context.Background(), "anything", chunk)
	if got != "Only sentence here." {
		t.Errorf("short chunk: got %q", got)
	}
}

type failingEmbedder struct {
	*embedding.HashingEmbedder
	failOn string
}

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding backend unavailable")
	}
	return f.HashingEmbedder.Embed(ctx, text)
}

func TestRankExcludesFailedEmbeddings(t *testing.T) {
	embedder := &failingEmbedder{
		HashingEmbedder: embedding.NewHashingEmbedder(128),
		failOn:          "maritime",
	}
	cfg := &config.PipelineConfig{TopK: 20, TopN: 10, TopM: 3, Workers: 2}
	p := New(embedder, scoring.NewLexicalScorer(), cfg, nil)
	query := models.PersonaQuery{Task: "plan a coastal trip"}
	ranked, err := p.Rank(context.Background(), query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 4 {
		t.Fatalf("got %d results, want 4 after exclusion", len(ranked))
	}
	for _, rc := range ranked {
		if strings.Contains(rc.Chunk.Text, "maritime") {
			t.Errorf("failed chunk should be excluded: %q", rc.Chunk.Text)
		}
	}
}

func TestRankQueryEmbedFailureIsFatal(t *testing.T) {
	embedder := &failingEmbedder{
		HashingEmbedder: embedding.NewHashingEmbedder(128),
		failOn:          "User context",
	}
	cfg := &config.PipelineConfig{TopK: 20, TopN: 10, TopM: 3, Workers: 2}
	p := New(embedder, scoring.NewLexicalScorer(), cfg, nil)
	_, err := p.Rank(context.Background(), models.PersonaQuery{Role: "Analyst"}, testChunks())
	if err == nil {
		t.Error("expected error when query embedding fails")
	}
}

func TestRankOutputSubsetOfRecall(t *testing.T) {
	cfg := &config.PipelineConfig{TopK: 3, TopN: 3, TopM: 3, Workers: 2}
	p := testPipeline(cfg)
	ctx := context.Background()
	query := models.PersonaQuery{Task: "plan a coastal trip with seafood"}

	queryVec, err := p.embedder.Embed(ctx, query.QueryString())
	if err != nil {
		t.Fatal(err)
	}
	recalled, err := p.recall(ctx, queryVec, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	if len(recalled) != 3 {
		t.Fatalf("recall width: got %d, want TopK=3", len(recalled))
	}
	recallIDs := make(map[string]bool)
	for _, c := range recalled {
		recallIDs[c.ID] = true
	}

	ranked, err := p.Rank(ctx, query, testChunks())
	if err != nil {
		t.Fatal(err)
	}
	for _, rc := range ranked {
		if !recallIDs[rc.Chunk.ID] {
			t.Errorf("ranked chunk %s was never recalled", rc.Chunk.ID)
		}
	}
}

func TestRankEmptyTextChunksExcluded(t *testing.T) {
	chunks := testChunks()
	chunks = append(chunks, models.Chunk{ID: "guide.pdf_9999", DocumentID: "guide.pdf", Heading: "Blank", Text: "   "})
	p := testPipeline(nil)
	ranked, err := p.Rank(context.Background(), models.PersonaQuery{Task: "coastal trip"}, chunks)
	if err != nil {
		t.Fatal(err)
	}
	for _, rc := range ranked {
		if rc.Chunk.ID == "guide.pdf_9999" {
			t.Error("empty-text chunk should be excluded")
		}
	}
}
