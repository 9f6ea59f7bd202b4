// Package outline reconstructs a document's heading hierarchy from raw
// spans, using embedded outline data when present and printed-TOC parsing,
// font clustering, and numbering-pattern heuristics otherwise.
package outline

import "github.com/hyperjump/midashi/internal/models"

// maxHeadings caps the outline length; anything past this is noise from
// over-eager candidate detection.
const maxHeadings = 30

// Reconstructor infers a document outline from extracted spans.
// It never fails on malformed structure: a document with no detectable
// headings yields a valid outline with an empty heading list.
type Reconstructor struct{}

// NewReconstructor returns a Reconstructor.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Reconstruct builds the outline for doc. When the document carries an
// embedded outline it is trusted verbatim for levels and pages and the
// heuristic passes are skipped entirely.
func (r *Reconstructor) Reconstruct(doc *models.Document) *models.Outline {
	title := doc.Title
	if title == "" {
		title = firstPageTitle(doc.Spans)
	}

	if len(doc.Embedded) > 0 {
		headings := make([]models.Heading, 0, len(doc.Embedded))
		for _, entry := range doc.Embedded {
			if entry.Text == "" {
				continue
			}
			headings = append(headings, models.Heading{
				Level: entry.Level,
				Text:  entry.Text,
				Page:  entry.Page,
			})
		}
		return &models.Outline{Title: title, Headings: headings}
	}

	body := bodyFontSize(doc.Spans)
	levels := clusterFontSizes(doc.Spans, body)

	cands := tocCandidates(doc.Spans)
	cands = append(cands, fontCandidates(doc.Spans, levels)...)
	cands = append(cands, patternCandidates(doc.Spans)...)
	cands = mergeCandidates(cands)
	cands = dedupContained(cands)
	if len(cands) > maxHeadings {
		cands = cands[:maxHeadings]
	}

	headings := make([]models.Heading, 0, len(cands))
	for _, cand := range cands {
		headings = append(headings, models.Heading{
			Level: cand.Level,
			Text:  cand.Text,
			Page:  cand.Page,
		})
	}
	return &models.Outline{Title: title, Headings: headings}
}
