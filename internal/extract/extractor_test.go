package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractRejectsGarbage(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract([]byte("certainly not a pdf"), "garbage.pdf")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("expected ErrCorruptDocument, got %v", err)
	}
	_, err = e.Extract(nil, "empty.pdf")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("empty input: expected ErrCorruptDocument, got %v", err)
	}
}

func TestExtractFileMissing(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractFile(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.pdf", "alpha.pdf", "notes.txt", "Beta.PDF", "Gamma.Pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := FindPDFs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 4 {
		t.Fatalf("got %d paths, want 4: %v", len(paths), paths)
	}
	// Directory order is lexicographic, so runs are reproducible.
	want := []string{"Beta.PDF", "Gamma.Pdf", "alpha.pdf", "zeta.pdf"}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Errorf("position %d: got %s, want %s", i, filepath.Base(paths[i]), name)
		}
	}
}

func TestFindPDFsMissingDir(t *testing.T) {
	if _, err := FindPDFs(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}
