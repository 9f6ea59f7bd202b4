package chunker

import "strings"

// EstimateTokens gives a rough token count for model input sizing.
// Exact tokenization is not required here; roughly 1.33 tokens per word
// holds for English prose.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
