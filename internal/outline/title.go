package outline

import (
	"strings"
	"unicode"

	"github.com/hyperjump/midashi/internal/models"
)

// firstPageTitle picks the largest-font span on page 1 as the document title
// when no embedded title exists. Ties go to the span highest on the page.
// Returns "" when page 1 offers nothing usable.
func firstPageTitle(spans []models.Span) string {
	var best models.Span
	found := false
	for _, span := range spans {
		if span.Page != 1 {
			continue
		}
		text := strings.TrimSpace(span.Text)
		if len([]rune(text)) <= 3 || isAllDigits(text) {
			continue
		}
		if !found || span.FontSize > best.FontSize ||
			(span.FontSize == best.FontSize && span.Y > best.Y) {
			best = span
			found = true
		}
	}
	if !found {
		return ""
	}
	return strings.TrimSpace(best.Text)
}

func isAllDigits(text string) bool {
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return text != ""
}
