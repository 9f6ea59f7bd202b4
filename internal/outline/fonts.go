package outline

import (
	"math"
	"sort"

	"github.com/hyperjump/midashi/internal/models"
)

// roundSize rounds a font size to the nearest half point so that rendering
// jitter does not fragment the clusters.
func roundSize(size float64) float64 {
	return math.Round(size*2) / 2
}

// bodyFontSize returns the modal rounded font size, which is taken to be
// the document's body text size. Returns 0 for a document with no spans.
func bodyFontSize(spans []models.Span) float64 {
	counts := make(map[float64]int)
	for _, span := range spans {
		counts[roundSize(span.FontSize)]++
	}
	var body float64
	best := 0
	for size, n := range counts {
		if n > best || (n == best && size < body) {
			best = n
			body = size
		}
	}
	return body
}

// clusterFontSizes ranks the distinct rounded sizes strictly above body text
// descending and maps the top four to H1..H4. Body size itself never maps to
// a level.
func clusterFontSizes(spans []models.Span, body float64) map[float64]models.Level {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, span := range spans {
		size := roundSize(span.FontSize)
		if size <= body || seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	levels := make(map[float64]models.Level)
	for i, size := range sizes {
		if i >= 4 {
			break
		}
		levels[size] = models.LevelFromDepth(i + 1)
	}
	return levels
}

// fontCandidates returns heading candidates derived from font clustering.
// A span qualifies only if its size is strictly above body text AND it is
// bold, uppercase, or carries a numbering marker; the conjunctive gate keeps
// large captions and figure labels out.
func fontCandidates(spans []models.Span, levels map[float64]models.Level) []models.HeadingCandidate {
	var cands []models.HeadingCandidate
	for _, span := range spans {
		level, ok := levels[roundSize(span.FontSize)]
		if !ok {
			continue
		}
		if isBodyText(span.Text) {
			continue
		}
		_, numbered := MatchNumbering(span.Text)
		if !span.Bold && !span.Uppercase && !numbered {
			continue
		}
		confidence := 0.7
		if span.Bold {
			confidence += 0.1
		}
		if span.Uppercase {
			confidence += 0.05
		}
		cands = append(cands, models.HeadingCandidate{
			Text:       span.Text,
			Page:       span.Page,
			Level:      level,
			Source:     models.SourceFont,
			Confidence: confidence,
			Y:          span.Y,
		})
	}
	return cands
}

// patternCandidates returns low-confidence candidates for spans that carry a
// numbering marker but no font signal. The level is implied by the
// numbering depth.
func patternCandidates(spans []models.Span) []models.HeadingCandidate {
	var cands []models.HeadingCandidate
	for _, span := range spans {
		if isBodyText(span.Text) {
			continue
		}
		level, ok := MatchNumbering(span.Text)
		if !ok {
			continue
		}
		cands = append(cands, models.HeadingCandidate{
			Text:       span.Text,
			Page:       span.Page,
			Level:      level,
			Source:     models.SourcePattern,
			Confidence: 0.5,
			Y:          span.Y,
		})
	}
	return cands
}
