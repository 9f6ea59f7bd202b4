package outline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/midashi/internal/models"
)

// maxTOCPages bounds the scan for a printed table of contents to the front
// matter.
const maxTOCPages = 5

// tocKeywords marks a page as a table of contents when any of them appears
// in its text.
var tocKeywords = []string{
	"table of contents",
	"contents",
	"index",
	"目录",
	"table des matières",
	"inhaltsverzeichnis",
	"índice",
	"sommario",
	"目次",
}

// tocNumberedLine matches a numbered TOC entry with a dotted leader, e.g.
// "1.2 Installation .... 14". Captures the section number, the heading text,
// and the referenced page.
var tocNumberedLine = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s*\.?\s*([^.]+?)\.{2,}\s*(\d+)$`)

// tocSimpleLine matches an unnumbered TOC entry, e.g. "Introduction .... 3".
var tocSimpleLine = regexp.MustCompile(`^([^.]+?)\.{3,}\s*(\d+)$`)

// tocCandidates parses heading candidates from printed table-of-contents
// pages in the document's front matter. A page participates only when its
// text contains one of tocKeywords; on such pages, dotted-leader lines are
// parsed into candidates whose Page is the referenced page, not the TOC page
// itself. Keyword lines (the "Contents" heading) are skipped.
func tocCandidates(spans []models.Span) []models.HeadingCandidate {
	byPage := make(map[int][]models.Span)
	for _, span := range spans {
		if span.Page > maxTOCPages {
			continue
		}
		byPage[span.Page] = append(byPage[span.Page], span)
	}

	var cands []models.HeadingCandidate
	for page := 1; page <= maxTOCPages; page++ {
		pageSpans := byPage[page]
		if !isTOCPage(pageSpans) {
			continue
		}
		for _, span := range pageSpans {
			line := strings.TrimSpace(span.Text)
			if line == "" || containsKeyword(line) {
				continue
			}
			if m := tocNumberedLine.FindStringSubmatch(line); m != nil {
				depth := strings.Count(m[1], ".") + 1
				ref, err := strconv.Atoi(m[3])
				if err != nil {
					continue
				}
				cands = append(cands, models.HeadingCandidate{
					Text:       m[1] + " " + strings.TrimSpace(m[2]),
					Page:       ref,
					Level:      models.LevelFromDepth(depth),
					Source:     models.SourceTOC,
					Confidence: 0.9,
					Y:          span.Y,
				})
				continue
			}
			if m := tocSimpleLine.FindStringSubmatch(line); m != nil {
				ref, err := strconv.Atoi(m[2])
				if err != nil {
					continue
				}
				cands = append(cands, models.HeadingCandidate{
					Text:       strings.TrimSpace(m[1]),
					Page:       ref,
					Level:      models.LevelH1,
					Source:     models.SourceTOC,
					Confidence: 0.9,
					Y:          span.Y,
				})
			}
		}
	}
	return cands
}

func isTOCPage(spans []models.Span) bool {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.Text)
		b.WriteByte('\n')
	}
	return containsKeyword(b.String())
}

func containsKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range tocKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
