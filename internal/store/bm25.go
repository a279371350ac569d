package store

import (
	"math"
	"strings"
	"unicode"
)

// BM25 parameters, standard Okapi values.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// tokenize lowercases and splits on any non-alphanumeric rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// bm25Index holds per-corpus statistics for scoring.
type bm25Index struct {
	docTokens []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
	n         int
}

// newBM25Index builds the index over the candidate texts.
func newBM25Index(texts []string) *bm25Index {
	idx := &bm25Index{
		docTokens: make([]map[string]int, len(texts)),
		docLens:   make([]int, len(texts)),
		docFreq:   make(map[string]int),
		n:         len(texts),
	}

	totalLen := 0
	for i, text := range texts {
		tokens := tokenize(text)
		counts := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[tok]++
		}
		idx.docTokens[i] = counts
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)
		for tok := range counts {
			idx.docFreq[tok]++
		}
	}
	if idx.n > 0 {
		idx.avgDocLen = float64(totalLen) / float64(idx.n)
	}
	return idx
}

// score computes the Okapi BM25 score of document i for the query tokens.
func (idx *bm25Index) score(i int, queryTokens []string) float64 {
	if idx.docLens[i] == 0 || idx.avgDocLen == 0 {
		return 0
	}

	var score float64
	lenNorm := 1 - bm25B + bm25B*float64(idx.docLens[i])/idx.avgDocLen
	for _, tok := range queryTokens {
		tf := float64(idx.docTokens[i][tok])
		if tf == 0 {
			continue
		}
		df := float64(idx.docFreq[tok])
		idf := math.Log(1 + (float64(idx.n)-df+0.5)/(df+0.5))
		score += idf * tf * (bm25K1 + 1) / (tf + bm25K1*lenNorm)
	}
	return score
}
