package outline

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hyperjump/midashi/internal/models"
)

// normalizeHeading returns the NFKC, case and whitespace insensitive form of
// a heading used for merging and dedup.
func normalizeHeading(text string) string {
	folded := norm.NFKC.String(text)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// mergeCandidates merges candidates that refer to the same logical heading
// (equal normalized text and page) into one, keeping the level of the
// highest-confidence source. When sources agree on a heading, its confidence
// is raised: a numbering match promotes a font-cluster candidate. At equal
// confidence the stronger source wins (TOC over font, font over pattern).
// The result is sorted by document order (page, then top of page first).
func mergeCandidates(cands []models.HeadingCandidate) []models.HeadingCandidate {
	merged := make(map[string]*models.HeadingCandidate)
	order := make([]string, 0, len(cands))
	for _, cand := range cands {
		key := fmt.Sprintf("%s\x00%d", normalizeHeading(cand.Text), cand.Page)
		existing, ok := merged[key]
		if !ok {
			c := cand
			merged[key] = &c
			order = append(order, key)
			continue
		}
		if cand.Confidence > existing.Confidence ||
			(cand.Confidence == existing.Confidence && cand.Source < existing.Source) {
			existing.Level = cand.Level
			existing.Source = cand.Source
			existing.Text = cand.Text
		}
		existing.Confidence += 0.15
		if cand.Y > existing.Y {
			existing.Y = cand.Y
		}
	}

	out := make([]models.HeadingCandidate, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Y > out[j].Y
	})
	return out
}

// dedupContained drops headings whose long normalized text is contained in
// (or contains) an earlier heading's text. Catches split and restated
// headings that survive exact-match merging.
func dedupContained(cands []models.HeadingCandidate) []models.HeadingCandidate {
	var kept []models.HeadingCandidate
	var seen []string
	for _, cand := range cands {
		text := normalizeHeading(cand.Text)
		duplicate := false
		for _, prev := range seen {
			if text == prev ||
				(len(text) > 20 && strings.Contains(prev, text)) ||
				(len(prev) > 20 && strings.Contains(text, prev)) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		seen = append(seen, text)
		kept = append(kept, cand)
	}
	return kept
}
