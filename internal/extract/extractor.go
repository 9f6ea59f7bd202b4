// Package extract reads PDF documents into positioned text spans.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/midashi/internal/models"
)

// ErrCorruptDocument indicates input that could not be parsed as a PDF.
// Callers processing a batch should skip the document and continue.
var ErrCorruptDocument = errors.New("corrupt document")

// Extractor turns PDF bytes into models.Document values: ordered text spans
// with font metadata, the embedded metadata title, and any embedded outline.
type Extractor struct {
	// MinSpanLength drops spans shorter than this many runes (page numbers,
	// stray glyphs). Zero means the default of 3.
	MinSpanLength int
}

// NewExtractor returns an Extractor with default settings.
func NewExtractor() *Extractor {
	return &Extractor{MinSpanLength: 3}
}

// ExtractFile reads the PDF at path and extracts its spans.
func (e *Extractor) ExtractFile(path string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.Extract(content, filepath.Base(path))
}

// FindPDFs returns the sorted paths of all PDF files directly under dir.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
