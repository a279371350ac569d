package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/noesis/internal/models"
)

// DefaultDocumentCount is the topK applied when a query omits it.
const DefaultDocumentCount = 6

// DefaultAlpha is the hybrid vector/lexical mix when a query omits it.
const DefaultAlpha = 0.5

// Query runs one retrieval request. Results are ordered by descending score;
// ties break by insertion order.
func (s *Store) Query(ctx context.Context, q *models.VectorStoreQuery) (*models.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recs []record
	if err := s.db.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	if len(recs) == 0 {
		return &models.QueryResult{}, nil
	}

	// Insertion order is the ranking tie-breaker.
	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })

	topK := q.SimilarityTopK
	if topK <= 0 {
		topK = DefaultDocumentCount
	}

	var scores []float64
	switch q.Mode {
	case models.QueryModeBM25:
		scores = bm25Scores(recs, q.QueryStr)
	case models.QueryModeHybrid:
		alpha := DefaultAlpha
		if q.Alpha != nil {
			alpha = clampAlpha(*q.Alpha)
		}
		vec := normalize(vectorScores(recs, q.QueryEmbedding))
		lex := normalize(bm25Scores(recs, q.QueryStr))
		scores = make([]float64, len(recs))
		for i := range recs {
			scores[i] = alpha*vec[i] + (1-alpha)*lex[i]
		}
	default:
		scores = vectorScores(recs, q.QueryEmbedding)
	}

	order := make([]int, len(recs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if topK < len(order) {
		order = order[:topK]
	}

	result := &models.QueryResult{
		Nodes:        make([]*models.Node, len(order)),
		Similarities: make([]float64, len(order)),
	}
	for i, idx := range order {
		result.Nodes[i] = recs[idx].toNode()
		result.Similarities[i] = scores[idx]
	}
	return result, nil
}

func vectorScores(recs []record, queryEmbedding []float32) []float64 {
	scores := make([]float64, len(recs))
	for i, rec := range recs {
		scores[i] = cosineSimilarity(queryEmbedding, rec.Embedding)
	}
	return scores
}

func bm25Scores(recs []record, queryStr string) []float64 {
	texts := make([]string, len(recs))
	for i, rec := range recs {
		texts[i] = rec.Text
	}
	idx := newBM25Index(texts)
	queryTokens := tokenize(queryStr)

	scores := make([]float64, len(recs))
	for i := range recs {
		scores[i] = idx.score(i, queryTokens)
	}
	return scores
}

// cosineSimilarity returns 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// normalize min-max scales scores into [0,1]. A flat distribution maps to all
// zeros so it contributes nothing to the hybrid mix.
func normalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	if max == min {
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}

func clampAlpha(alpha float64) float64 {
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}
