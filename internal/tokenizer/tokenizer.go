// Package tokenizer converts event text and queries into lexical terms.
// Both the sparse index and query-time scoring must tokenize identically,
// so the logic lives in one place.
package tokenizer

import (
	"strings"
	"unicode"
)

// stopwords are high-frequency terms that carry no retrieval signal.
// Event listings are short, so the list is kept deliberately small:
// aggressive stopping hurts proper-noun-heavy queries.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "at": {}, "de": {}, "des": {},
	"du": {}, "for": {}, "in": {}, "la": {}, "le": {}, "les": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

// Tokenize lowercases text and splits it into terms on any rune that is
// neither a letter nor a digit. Accented letters survive intact; venue
// and artist names in French or German listings must match exactly.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TermFrequencies counts occurrences of each token in text.
func TermFrequencies(text string) map[string]int {
	freqs := make(map[string]int)
	for _, tok := range Tokenize(text) {
		freqs[tok]++
	}
	return freqs
}
