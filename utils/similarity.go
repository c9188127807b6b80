package utils

import (
	"strings"
	"unicode"
)

// TrigramSimilarity scores how alike two strings are on a 0..1 scale using
// the same scheme as PostgreSQL's pg_trgm: each word is lowercased, padded
// with two leading and one trailing space, broken into 3-rune windows, and
// the two trigram sets are compared with the Jaccard index. Run in-process
// because the backing store has no native trigram operator.
func TrigramSimilarity(a, b string) float64 {
	ta := trigramSet(a)
	tb := trigramSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// trigramSet extracts the deduplicated trigrams of every word in s. Words
// are maximal runs of letters and digits; everything else separates words.
func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range splitWords(strings.ToLower(s)) {
		padded := append([]rune{' ', ' '}, word...)
		padded = append(padded, ' ')
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

func splitWords(s string) [][]rune {
	var words [][]rune
	var current []rune
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			words = append(words, current)
			current = nil
		}
	}
	if len(current) > 0 {
		words = append(words, current)
	}
	return words
}
