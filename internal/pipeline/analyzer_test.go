package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/midashi/internal/config"
	"github.com/hyperjump/midashi/internal/embedding"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/scoring"
)

func testAnalyzer() *Analyzer {
	cfg := config.Default()
	return NewAnalyzer(cfg, embedding.NewHashingEmbedder(cfg.Embedding.Dimensions), scoring.NewLexicalScorer(), nil)
}

func TestAnalyzeDirEmpty(t *testing.T) {
	a := testAnalyzer()
	_, err := a.AnalyzeDir(context.Background(), t.TempDir(), models.PersonaQuery{Role: "Analyst"})
	if err == nil {
		t.Error("expected error for directory without PDFs")
	}
}

func TestAnalyzeDirMissing(t *testing.T) {
	a := testAnalyzer()
	_, err := a.AnalyzeDir(context.Background(), filepath.Join(t.TempDir(), "absent"), models.PersonaQuery{Role: "Analyst"})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestAnalyzePathsEmptyQuery(t *testing.T) {
	a := testAnalyzer()
	_, err := a.AnalyzePaths(context.Background(), []string{"whatever.pdf"}, models.PersonaQuery{})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestAnalyzePathsAllUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := testAnalyzer()
	_, err := a.AnalyzePaths(context.Background(), []string{path}, models.PersonaQuery{Role: "Analyst"})
	if !errors.Is(err, ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestOutlineFileRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := testAnalyzer()
	if _, err := a.OutlineFile(path); err == nil {
		t.Error("expected error for unparseable PDF")
	}
}
