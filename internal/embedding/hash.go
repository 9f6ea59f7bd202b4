package embedding

import (
	"math"
	"strings"
)

// SplitWords splits text on whitespace and returns non-empty lowercase words.
func SplitWords(text string) []string {
	var words []string
	for _, w := range strings.Fields(text) {
		words = append(words, strings.ToLower(w))
	}
	return words
}

// HashString returns a deterministic non-negative hash of s, used for token
// IDs and hash-bucket embeddings.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	// Masking the sign bit stays non-negative even when the accumulator
	// lands on math.MinInt, where negation would not.
	return h & math.MaxInt
}
