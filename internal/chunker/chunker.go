// Package chunker segments documents into heading-bounded chunks and
// sentences for embedding and ranking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/midashi/internal/models"
)

// minSentenceRunes drops fragments too short to carry meaning on their own.
const minSentenceRunes = 20

// untitledHeading names chunks with no owning heading.
const untitledHeading = "Untitled"

// Chunker builds chunks from a document and its reconstructed outline.
type Chunker struct {
	maxTokens int
}

// New returns a Chunker that splits chunks above maxTokens (estimated) at
// sentence boundaries.
func New(maxTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Chunker{maxTokens: maxTokens}
}

// Chunk segments doc along its outline headings. Every heading opens a
// boundary and each span lands in exactly one chunk, so concatenating the
// chunks reproduces the document text. Spans before the first heading form
// a preamble chunk titled with the document title. A document with no
// headings yields a single whole-document chunk.
func (c *Chunker) Chunk(doc *models.Document, outline *models.Outline) []models.Chunk {
	if len(doc.Spans) == 0 {
		return nil
	}

	title := outline.Title
	if title == "" {
		title = untitledHeading
	}

	anchors := anchorHeadings(doc.Spans, outline.Headings)
	if len(anchors) == 0 {
		chunk := c.buildChunk(doc, title, models.LevelTitle, doc.Spans)
		return c.splitOversized(chunk)
	}

	var chunks []models.Chunk
	if anchors[0].spanIndex > 0 {
		pre := c.buildChunk(doc, title, models.LevelTitle, doc.Spans[:anchors[0].spanIndex])
		chunks = append(chunks, c.splitOversized(pre)...)
	}
	for i, anchor := range anchors {
		end := len(doc.Spans)
		if i+1 < len(anchors) {
			end = anchors[i+1].spanIndex
		}
		region := doc.Spans[anchor.spanIndex:end]
		if len(region) == 0 {
			continue
		}
		chunk := c.buildChunk(doc, anchor.heading.Text, anchor.heading.Level, region)
		chunks = append(chunks, c.splitOversized(chunk)...)
	}
	return chunks
}

type anchor struct {
	heading   models.Heading
	spanIndex int
}

// anchorHeadings locates each outline heading's span, searching forward from
// the previous anchor. A heading matches the first span with the same folded
// text; when no span matches (embedded outlines sometimes rephrase), the
// first unclaimed span of the heading's page is used. Headings that cannot
// be anchored at all are skipped.
func anchorHeadings(spans []models.Span, headings []models.Heading) []anchor {
	var anchors []anchor
	next := 0
	for _, h := range headings {
		want := foldText(h.Text)
		found := -1
		for i := next; i < len(spans); i++ {
			if foldText(spans[i].Text) == want {
				found = i
				break
			}
		}
		if found < 0 {
			for i := next; i < len(spans); i++ {
				if spans[i].Page == h.Page {
					found = i
					break
				}
			}
		}
		if found < 0 {
			continue
		}
		anchors = append(anchors, anchor{heading: h, spanIndex: found})
		next = found + 1
	}
	return anchors
}

func foldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// buildChunk assembles one chunk from a contiguous span region.
func (c *Chunker) buildChunk(doc *models.Document, heading string, level models.Level, region []models.Span) models.Chunk {
	parts := make([]string, len(region))
	for i, span := range region {
		parts[i] = span.Text
	}
	text := strings.Join(parts, "\n")
	return models.Chunk{
		ID:         chunkID(doc.Name),
		DocumentID: doc.Name,
		Heading:    heading,
		Level:      level,
		PageStart:  region[0].Page,
		PageEnd:    region[len(region)-1].Page,
		Text:       text,
		Sentences:  chunkSentences(text),
	}
}

// chunkSentences segments text into cleaned sentences. A chunk with no
// extractable sentences keeps its full text as a single pseudo-sentence so
// downstream ranking never operates on an empty set.
func chunkSentences(text string) []string {
	var kept []string
	for _, s := range SplitSentences(text) {
		if len([]rune(s)) >= minSentenceRunes {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return []string{text}
	}
	return kept
}

// splitOversized splits a chunk above the token ceiling into contiguous
// sub-chunks at sentence boundaries. Grouping runs over the raw sentence
// segmentation of the chunk text, not the length-filtered Sentences, so no
// text is lost across the split. Sub-chunks keep the heading and page
// metadata of the original so the output still points readers at the right
// section.
func (c *Chunker) splitOversized(chunk models.Chunk) []models.Chunk {
	if EstimateTokens(chunk.Text) <= c.maxTokens {
		return []models.Chunk{chunk}
	}
	sentences := SplitSentences(chunk.Text)
	if len(sentences) <= 1 {
		return []models.Chunk{chunk}
	}

	var out []models.Chunk
	var group []string
	groupTokens := 0
	flush := func() {
		if len(group) == 0 {
			return
		}
		text := strings.Join(group, " ")
		sub := chunk
		sub.ID = chunkID(chunk.DocumentID)
		sub.Text = text
		sub.Sentences = chunkSentences(text)
		out = append(out, sub)
		group = nil
		groupTokens = 0
	}
	for _, sentence := range sentences {
		tokens := EstimateTokens(sentence)
		if groupTokens+tokens > c.maxTokens && len(group) > 0 {
			flush()
		}
		group = append(group, sentence)
		groupTokens += tokens
	}
	flush()
	return out
}

func chunkID(docID string) string {
	return fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8])
}
