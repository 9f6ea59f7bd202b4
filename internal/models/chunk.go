package models

// Chunk is a contiguous body-text segment under one heading. Chunks are
// built once per run by the chunker and immutable afterwards.
type Chunk struct {
	ID         string
	DocumentID string
	Heading    string
	Level      Level
	PageStart  int
	PageEnd    int
	Text       string
	// Sentences holds the chunk's sentences in reading order. A chunk with
	// no extractable sentences keeps Text as a single pseudo-sentence so
	// downstream ranking never sees an empty set.
	Sentences []string
}

// RankedChunk is a chunk with its rerank score and refined sentence text,
// produced by the relevance pipeline in final output order.
type RankedChunk struct {
	Chunk       Chunk
	Score       float64
	RefinedText string
}
