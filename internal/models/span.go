// Package models defines core data structures for spans, outlines, chunks,
// and analysis results.
package models

// Span is one line of extracted text with page and font metadata.
// Spans are produced once per document by the extractor and never mutated.
// Y is the PDF baseline coordinate (origin bottom-left), so within a page
// a larger Y means higher on the page.
type Span struct {
	Text      string
	Page      int
	FontSize  float64
	FontName  string
	Bold      bool
	Uppercase bool
	X         float64
	Y         float64
}

// EmbeddedEntry is one entry of a document's embedded outline
// (the structured table of contents carried in the PDF itself).
type EmbeddedEntry struct {
	Level Level
	Text  string
	Page  int
}

// Document is the extraction result for one PDF: ordered spans plus any
// embedded structure. Spans are in document order (page, then top to bottom).
type Document struct {
	Name     string
	Pages    int
	Title    string // embedded metadata title, may be empty
	Spans    []Span
	Embedded []EmbeddedEntry
}
