package outline

import (
	"testing"

	"github.com/hyperjump/midashi/internal/models"
)

func spanAt(text string, size float64, bold bool) models.Span {
	return models.Span{Text: text, Page: 1, FontSize: size, Bold: bold}
}

func TestBodyFontSize(t *testing.T) {
	spans := []models.Span{
		spanAt("a body line", 10, false),
		spanAt("another body line", 10.1, false), // rounds to 10
		spanAt("a third body line", 10, false),
		spanAt("Heading", 14, true),
	}
	if got := bodyFontSize(spans); got != 10 {
		t.Errorf("bodyFontSize: got %v, want 10", got)
	}
	if got := bodyFontSize(nil); got != 0 {
		t.Errorf("bodyFontSize(nil): got %v, want 0", got)
	}
}

func TestClusterFontSizes(t *testing.T) {
	spans := []models.Span{
		spanAt("body", 10, false),
		spanAt("h1", 18, true),
		spanAt("h2", 16, true),
		spanAt("h3", 14, true),
		spanAt("h4", 12, true),
		spanAt("h5?", 11, true), // fifth distinct size gets no level
	}
	levels := clusterFontSizes(spans, 10)
	want := map[float64]models.Level{
		18: models.LevelH1,
		16: models.LevelH2,
		14: models.LevelH3,
		12: models.LevelH4,
	}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d: %v", len(levels), len(want), levels)
	}
	for size, level := range want {
		if levels[size] != level {
			t.Errorf("size %v: got %v, want %v", size, levels[size], level)
		}
	}
	if _, ok := levels[11]; ok {
		t.Error("fifth size should not receive a level")
	}
	if _, ok := levels[10]; ok {
		t.Error("body size should never receive a level")
	}
}

func TestFontCandidatesGate(t *testing.T) {
	levels := map[float64]models.Level{16: models.LevelH1}
	spans := []models.Span{
		{Text: "Methodology", Page: 2, FontSize: 16, Bold: true},
		{Text: "A large but plain caption", Page: 2, FontSize: 16}, // no bold/caps/numbering
		{Text: "RESULTS", Page: 3, FontSize: 16, Uppercase: true},
		{Text: "3. Discussion", Page: 4, FontSize: 16},
		{Text: "body text at body size", Page: 2, FontSize: 10, Bold: true},
	}
	cands := fontCandidates(spans, levels)
	if len(cands) != 3 {
		t.Fatalf("got %d candidates, want 3: %+v", len(cands), cands)
	}
	for _, c := range cands {
		if c.Level != models.LevelH1 || c.Source != models.SourceFont {
			t.Errorf("candidate %q: level %v source %v", c.Text, c.Level, c.Source)
		}
	}
	if cands[0].Confidence <= cands[1].Confidence {
		t.Error("bold candidate should score above uppercase-only")
	}
}

func TestPatternCandidates(t *testing.T) {
	spans := []models.Span{
		{Text: "2.1 Setup", Page: 5, FontSize: 10},
		{Text: "plain body text here", Page: 5, FontSize: 10},
		{Text: "1. the list continues in lowercase", Page: 6, FontSize: 10},
	}
	cands := patternCandidates(spans)
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(cands), cands)
	}
	if cands[0].Text != "2.1 Setup" || cands[0].Level != models.LevelH2 {
		t.Errorf("candidate: %+v", cands[0])
	}
	if cands[0].Confidence != 0.5 {
		t.Errorf("pattern confidence: got %v, want 0.5", cands[0].Confidence)
	}
}
