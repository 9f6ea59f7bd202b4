package models

import (
	"encoding/json"
	"fmt"
)

// Level is a heading depth: the document title or H1 through H4.
type Level int

const (
	// LevelTitle marks the document title pseudo-level.
	LevelTitle Level = iota
	// LevelH1 is a top-level heading.
	LevelH1
	LevelH2
	LevelH3
	LevelH4
)

// String returns the wire representation ("title", "H1".."H4").
func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "title"
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelH4:
		return "H4"
	default:
		return "unknown"
	}
}

// LevelFromDepth maps a 1-based outline depth to a heading level, capped at H4.
func LevelFromDepth(depth int) Level {
	if depth < 1 {
		depth = 1
	}
	if depth > 4 {
		depth = 4
	}
	return Level(depth)
}

// MarshalJSON encodes the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its string form.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "title":
		*l = LevelTitle
	case "H1":
		*l = LevelH1
	case "H2":
		*l = LevelH2
	case "H3":
		*l = LevelH3
	case "H4":
		*l = LevelH4
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// CandidateSource identifies which detection pass produced a heading candidate.
type CandidateSource int

const (
	// SourceEmbedded means the candidate came from the PDF's own outline data.
	SourceEmbedded CandidateSource = iota
	// SourceTOC means the candidate was parsed from a printed table of contents.
	SourceTOC
	// SourceFont means the candidate came from font-size clustering.
	SourceFont
	// SourcePattern means the candidate came from a numbering-pattern match.
	SourcePattern
)

// String returns a short name for the source.
func (s CandidateSource) String() string {
	switch s {
	case SourceEmbedded:
		return "embedded"
	case SourceTOC:
		return "toc"
	case SourceFont:
		return "font"
	case SourcePattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// HeadingCandidate is a possible heading before merge and level resolution.
// Candidates from different sources that refer to the same logical heading
// (same normalized text and page) are merged into one.
type HeadingCandidate struct {
	Text       string
	Page       int
	Level      Level
	Source     CandidateSource
	Confidence float64
	Y          float64
}

// Heading is one resolved outline entry.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the reconstructed title and ordered heading sequence for one
// document. Levels are assigned per heading; sibling consistency is a
// best-effort property, not an invariant.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}
