package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, tokenize("Hello, World!"))
	assert.Equal(t, []string{"a1", "b2"}, tokenize("a1-b2"))
	assert.Empty(t, tokenize("  ...  "))
	assert.Empty(t, tokenize(""))
}

func TestBM25PrefersRareTerms(t *testing.T) {
	idx := newBM25Index([]string{
		"the cat sat on the mat",
		"the dog sat on the log",
		"quantum entanglement in photonic systems",
	})

	// "quantum" appears in one document, "the" in two; the rare term must
	// dominate scoring for its document.
	query := tokenize("quantum the")
	s0 := idx.score(0, query)
	s2 := idx.score(2, query)
	assert.Greater(t, s2, s0)
}

func TestBM25TermFrequencySaturates(t *testing.T) {
	idx := newBM25Index([]string{
		"fox",
		"fox fox",
		"fox fox fox fox fox fox fox fox",
	})

	query := tokenize("fox")
	s1 := idx.score(0, query)
	s2 := idx.score(1, query)
	s3 := idx.score(2, query)

	assert.Greater(t, s2, s1)
	assert.Greater(t, s3, s2)
	// Diminishing returns: doubling frequency does not double the score.
	assert.Less(t, s3-s2, s2-s1)
}

func TestBM25NoMatchScoresZero(t *testing.T) {
	idx := newBM25Index([]string{"alpha beta", "gamma delta"})
	assert.Equal(t, 0.0, idx.score(0, tokenize("omega")))
	assert.Equal(t, 0.0, idx.score(1, tokenize("")))
}

func TestBM25EmptyDocuments(t *testing.T) {
	idx := newBM25Index([]string{"", "alpha"})
	assert.Equal(t, 0.0, idx.score(0, tokenize("alpha")))
	assert.Greater(t, idx.score(1, tokenize("alpha")), 0.0)
}
