package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/midashi/internal/models"
)

// lineYTolerance groups text fragments onto the same line when their
// baselines differ by less than this many points.
const lineYTolerance = 2.0

// Extract parses content as a PDF and returns its spans and embedded
// structure. name becomes the document ID. Unparseable input is reported as
// ErrCorruptDocument; the underlying parser panics on some malformed files,
// which is also mapped to ErrCorruptDocument.
func (e *Extractor) Extract(content []byte, name string) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	minLen := e.MinSpanLength
	if minLen <= 0 {
		minLen = 3
	}

	numPages := reader.NumPage()
	var spans []models.Span
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		spans = append(spans, extractPageSpans(page, pageNum, minLen)...)
	}

	doc = &models.Document{
		Name:  name,
		Pages: numPages,
		Title: metadataTitle(reader),
		Spans: spans,
	}
	doc.Embedded = embeddedOutline(reader, spans)
	return doc, nil
}

// extractPageSpans groups the page's text fragments into lines and returns
// one span per line, ordered top to bottom.
func extractPageSpans(page pdf.Page, pageNum, minLen int) []models.Span {
	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}
	// Top to bottom, then left to right. PDF Y grows upward.
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var spans []models.Span
	var line []pdf.Text
	flush := func() {
		if span, ok := buildSpan(line, pageNum, minLen); ok {
			spans = append(spans, span)
		}
		line = line[:0]
	}
	for _, t := range texts {
		if len(line) > 0 && absFloat(t.Y-line[0].Y) > lineYTolerance {
			flush()
		}
		line = append(line, t)
	}
	flush()
	return spans
}

// buildSpan joins one line's fragments into a span. A space is inserted
// where the horizontal gap between fragments indicates a word break.
func buildSpan(line []pdf.Text, pageNum, minLen int) (models.Span, bool) {
	if len(line) == 0 {
		return models.Span{}, false
	}
	var b strings.Builder
	bold := false
	for i, t := range line {
		if i > 0 {
			prev := line[i-1]
			if t.X-(prev.X+prev.W) > 1.0 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		if strings.Contains(strings.ToLower(t.Font), "bold") {
			bold = true
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	if len([]rune(text)) < minLen {
		return models.Span{}, false
	}
	return models.Span{
		Text:      text,
		Page:      pageNum,
		FontSize:  line[0].FontSize,
		FontName:  line[0].Font,
		Bold:      bold,
		Uppercase: isUppercase(text),
		X:         line[0].X,
		Y:         line[0].Y,
	}, true
}

// metadataTitle returns the document's Info dictionary title, if any.
func metadataTitle(reader *pdf.Reader) string {
	info := reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return ""
	}
	title := info.Key("Title")
	if title.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(title.Text())
}

// embeddedOutline flattens the PDF's outline tree into leveled entries.
// The parser does not resolve destination pages, so pages are recovered by
// matching entry text against extracted spans; unmatched entries inherit the
// page of the previous entry.
func embeddedOutline(reader *pdf.Reader, spans []models.Span) []models.EmbeddedEntry {
	root := reader.Outline()
	if len(root.Child) == 0 {
		return nil
	}
	firstPage := make(map[string]int)
	for _, span := range spans {
		key := foldText(span.Text)
		if _, ok := firstPage[key]; !ok {
			firstPage[key] = span.Page
		}
	}
	var entries []models.EmbeddedEntry
	lastPage := 1
	var walk func(nodes []pdf.Outline, depth int)
	walk = func(nodes []pdf.Outline, depth int) {
		for _, node := range nodes {
			text := strings.Join(strings.Fields(node.Title), " ")
			if text != "" {
				page, ok := firstPage[foldText(text)]
				if !ok {
					page = lastPage
				}
				lastPage = page
				entries = append(entries, models.EmbeddedEntry{
					Level: models.LevelFromDepth(depth),
					Text:  text,
					Page:  page,
				})
			}
			walk(node.Child, depth+1)
		}
	}
	walk(root.Child, 1)
	return entries
}

// foldText lowercases and collapses whitespace for span/outline matching.
func foldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// isUppercase reports whether text contains a letter and no lowercase letters.
func isUppercase(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
