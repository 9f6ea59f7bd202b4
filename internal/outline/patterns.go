package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hyperjump/midashi/internal/models"
)

// Numbering pattern families. Each is matched independently; decimal
// patterns carry their own depth, the others imply a fixed level.
var (
	decimalPattern   = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+\S`)
	romanPattern     = regexp.MustCompile(`(?i)^[IVXLCDM]+\.\s+\S`)
	alphaPattern     = regexp.MustCompile(`^[A-Za-z][.)]\s+\S`)
	bracketedPattern = regexp.MustCompile(`^\(\d+\)\s+\S`)
	chapterPattern   = regexp.MustCompile(`(?i)^(chapter|section|part|appendix)\s+\d+`)
	cjkPattern       = regexp.MustCompile(`^第.{1,10}[章節节部篇]`)

	lowercaseListPattern = regexp.MustCompile(`^\d+\.\s+[a-z]`)
)

// MatchNumbering reports whether text starts with a recognized numbering
// convention, and the heading level that convention implies. For decimal
// numbering the level is the segment count ("1.2" is H2), capped at H4.
func MatchNumbering(text string) (models.Level, bool) {
	if m := decimalPattern.FindStringSubmatch(text); m != nil {
		depth := strings.Count(m[1], ".") + 1
		return models.LevelFromDepth(depth), true
	}
	switch {
	case cjkPattern.MatchString(text):
		return models.LevelH1, true
	case chapterPattern.MatchString(text):
		return models.LevelH1, true
	case romanPattern.MatchString(text):
		return models.LevelH1, true
	case bracketedPattern.MatchString(text):
		return models.LevelH2, true
	case alphaPattern.MatchString(text):
		return models.LevelH2, true
	}
	return 0, false
}

var boilerplateWords = []string{"copyright", "©", "all rights reserved", "draft"}

var bodyLeads = []string{
	"the ", "a ", "an ", "in ", "at ", "on ", "with ",
	"this is", "who have", "who are",
}

// isBodyText filters lines that read like running text or page furniture
// rather than headings.
func isBodyText(text string) bool {
	if len(text) > 120 {
		return true
	}
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, ",") ||
		strings.HasSuffix(text, ";") || strings.HasSuffix(text, ":") ||
		strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return true
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "http") || strings.Contains(lower, "www.") || strings.Contains(text, "@") {
		return true
	}
	if digitRatio(text) > 0.3 {
		return true
	}
	for _, word := range boilerplateWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	for _, lead := range bodyLeads {
		if strings.HasPrefix(lower, lead) {
			return true
		}
	}
	// Numbered list items continuing in lowercase ("1. the following...").
	if lowercaseListPattern.MatchString(text) {
		return true
	}
	return false
}

func digitRatio(text string) float64 {
	if text == "" {
		return 0
	}
	digits := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(total)
}
