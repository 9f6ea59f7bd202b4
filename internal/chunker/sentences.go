package chunker

import (
	"strings"
	"unicode"
)

// abbreviations are word forms whose trailing period does not end a
// sentence. Dotted forms ("e.g", "i.e", "u.s") are matched after stripping
// the final period only.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "st": {},
	"no": {}, "vs": {}, "etc": {}, "fig": {}, "eq": {}, "al": {},
	"approx": {}, "dept": {}, "inc": {}, "jr": {}, "sr": {},
	"e.g": {}, "i.e": {}, "u.s": {}, "u.k": {},
}

// SplitSentences splits text on sentence-terminal punctuation, keeping
// common abbreviations and single-letter initials intact. CJK terminal
// punctuation is honored as well. Returned sentences are trimmed; empty
// pieces are dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	emit := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '。', '！', '？':
			emit(i + 1)
		case '!', '?':
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				emit(i + 1)
			}
		case '.':
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			if isAbbreviation(runes[start:i]) {
				continue
			}
			emit(i + 1)
		}
	}
	emit(len(runes))
	return sentences
}

// isAbbreviation reports whether the word ending at the period is an
// abbreviation or a single-letter initial.
func isAbbreviation(before []rune) bool {
	end := len(before)
	wordStart := end
	for wordStart > 0 && !unicode.IsSpace(before[wordStart-1]) {
		wordStart--
	}
	word := strings.ToLower(string(before[wordStart:end]))
	word = strings.TrimSuffix(word, ".")
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 && unicode.IsLetter([]rune(word)[0]) {
		return true
	}
	_, ok := abbreviations[word]
	return ok
}
