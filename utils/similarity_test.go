package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, TrigramSimilarity("hello world", "hello world"))
	// Case and punctuation do not matter.
	assert.Equal(t, 1.0, TrigramSimilarity("Hello, World!", "hello world"))
}

func TestTrigramSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, TrigramSimilarity("abc", "xyz"))
}

func TestTrigramSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, TrigramSimilarity("", "hello"))
	assert.Equal(t, 0.0, TrigramSimilarity("hello", ""))
	assert.Equal(t, 0.0, TrigramSimilarity("", ""))
	assert.Equal(t, 0.0, TrigramSimilarity("...", "!!!"))
}

func TestTrigramSimilaritySubsetWord(t *testing.T) {
	// "hello" contributes 6 trigrams, "hello world" 12; 6 shared of 12.
	assert.InDelta(t, 0.5, TrigramSimilarity("hello", "hello world"), 1e-9)
}

func TestTrigramSimilarityToleratesMisspelling(t *testing.T) {
	score := TrigramSimilarity("helo", "hello")
	assert.Greater(t, score, 0.1)
	assert.Less(t, score, 1.0)
}

func TestTrigramSimilarityRanking(t *testing.T) {
	query := "tutorial"
	exact := TrigramSimilarity("Go Tutorial", query)
	longer := TrigramSimilarity("Django Tutorial", query)
	unrelated := TrigramSimilarity("Cooking", query)

	// The shorter title shares the same trigrams but carries less noise.
	assert.Greater(t, exact, longer)
	assert.Greater(t, longer, 0.1)
	assert.Equal(t, 0.0, unrelated)
}

func TestTrigramSimilaritySymmetric(t *testing.T) {
	a, b := "blog engine", "engine blog"
	assert.Equal(t, TrigramSimilarity(a, b), TrigramSimilarity(b, a))
	// Word order is irrelevant: both sides produce the same trigram set.
	assert.Equal(t, 1.0, TrigramSimilarity(a, b))
}

func TestTrigramSimilarityUnicode(t *testing.T) {
	// Multibyte runes must stay whole inside trigram windows.
	assert.Equal(t, 1.0, TrigramSimilarity("café", "café"))
	assert.Greater(t, TrigramSimilarity("café", "cafe"), 0.0)
}
