package scoring

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// Scoring weights. All-words-in-order beats all-words-scattered beats
// partial coverage; term frequency and early position add smaller bonuses.
const (
	orderedWordsScore   = 100.0
	scatteredWordsScore = 60.0
	partialMatchScore   = 40.0
	frequencyBonusCap   = 20.0
	positionBoost       = 1.2
	positionWindow      = 0.2
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "for": {}, "with": {}, "by": {}, "is": {},
	"are": {}, "was": {}, "be": {}, "as": {}, "it": {}, "its": {}, "this": {},
	"that": {}, "from": {}, "user": {}, "context": {}, "role": {}, "task": {},
}

// LexicalScorer is a model-free pairwise scorer built on term coverage,
// word order, term frequency, and match position. It is the default scorer
// when no cross-encoder model is configured, and deterministic by
// construction.
type LexicalScorer struct{}

// NewLexicalScorer returns a LexicalScorer.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

// Score rates text against query.
func (s *LexicalScorer) Score(ctx context.Context, query, text string) (float64, error) {
	terms := significantTerms(query)
	if len(terms) == 0 || text == "" {
		return 0, nil
	}
	textLower := strings.ToLower(text)

	matched := 0
	occurrences := 0
	for _, term := range terms {
		n := strings.Count(textLower, term)
		if n > 0 {
			matched++
			occurrences += n
		}
	}
	if matched == 0 {
		return 0, nil
	}

	ratio := float64(matched) / float64(len(terms))
	var score float64
	switch {
	case matched == len(terms) && termsInOrder(terms, textLower):
		score = orderedWordsScore
	case matched == len(terms):
		score = scatteredWordsScore
	default:
		score = partialMatchScore * ratio
	}

	// Repeated hits add a little, with diminishing returns.
	score += math.Min(float64(occurrences-matched)*2, frequencyBonusCap)

	if matchesEarly(terms, textLower) {
		score *= positionBoost
	}
	return score, nil
}

// Close is a no-op for LexicalScorer.
func (s *LexicalScorer) Close() error {
	return nil
}

// significantTerms lowercases, strips punctuation, and drops stop words and
// single characters.
func significantTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var terms []string
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// termsInOrder reports whether every term occurs and in query order.
func termsInOrder(terms []string, textLower string) bool {
	pos := 0
	for _, term := range terms {
		idx := strings.Index(textLower[pos:], term)
		if idx < 0 {
			return false
		}
		pos += idx + len(term)
	}
	return true
}

// matchesEarly reports whether any term appears in the leading window of
// the text.
func matchesEarly(terms []string, textLower string) bool {
	window := int(float64(len(textLower)) * positionWindow)
	if window < 100 {
		window = 100
	}
	if window > len(textLower) {
		window = len(textLower)
	}
	early := textLower[:window]
	for _, term := range terms {
		if strings.Contains(early, term) {
			return true
		}
	}
	return false
}
