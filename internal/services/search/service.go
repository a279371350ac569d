// -----------------------------------------------------------------------
// Search Service - query embedding, retrieval and optional rerank
// -----------------------------------------------------------------------

package search

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/providers"
	"github.com/ternarybob/noesis/internal/providers/embedding"
	"github.com/ternarybob/noesis/internal/providers/rerank"
)

// Request is one search invocation against a base.
type Request struct {
	Base       *models.KnowledgeBase
	Query      string
	Mode       models.QueryMode
	TopK       int
	Alpha      *float64
	Rerank     bool
	RerankTopN int
}

// Hit is one scored result.
type Hit struct {
	Node  *models.Node `json:"node"`
	Score float64      `json:"score"`
}

// Service embeds the query, runs it against the base's store and optionally
// reranks the hits. Rerank runs only on this path, never during ingestion.
type Service struct {
	adapter   *providers.Adapter
	embedReg  *embedding.Registry
	rerankReg *rerank.Registry
	stores    interfaces.VectorStoreManager
	cfg       common.SearchConfig
	logger    arbor.ILogger
}

// NewService creates the search service.
func NewService(adapter *providers.Adapter, embedReg *embedding.Registry, rerankReg *rerank.Registry, stores interfaces.VectorStoreManager, cfg common.SearchConfig, logger arbor.ILogger) *Service {
	return &Service{
		adapter:   adapter,
		embedReg:  embedReg,
		rerankReg: rerankReg,
		stores:    stores,
		cfg:       cfg,
		logger:    logger,
	}
}

// Search runs one query. BM25 mode skips query embedding entirely.
func (s *Service) Search(ctx context.Context, req *Request) ([]Hit, error) {
	if req.Query == "" {
		return nil, models.NewValidationError("query", "query is required")
	}

	resolved, err := s.adapter.ResolveBase(req.Base, req.Rerank)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.DocumentCount
	}

	alpha := req.Alpha
	if alpha == nil {
		configured := s.cfg.DefaultAlpha
		alpha = &configured
	}

	query := &models.VectorStoreQuery{
		QueryStr:       req.Query,
		SimilarityTopK: topK,
		Mode:           req.Mode,
		Alpha:          alpha,
	}

	if req.Mode != models.QueryModeBM25 {
		embedder, err := s.embedReg.CreateEmbedder(resolved.EmbedClient, resolved.Dimensions)
		if err != nil {
			return nil, err
		}
		vector, err := embedder.Embed(ctx, req.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		query.QueryEmbedding = vector
	}

	store, err := s.stores.GetStore(req.Base.ID)
	if err != nil {
		return nil, err
	}

	result, err := store.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(result.Nodes))
	for i, node := range result.Nodes {
		hits[i] = Hit{Node: node, Score: result.Similarities[i]}
	}

	if req.Rerank && len(hits) > 0 {
		reranked, err := s.rerankHits(ctx, resolved, req, hits)
		if err != nil {
			return nil, err
		}
		hits = reranked
	}

	s.logger.Debug().
		Str("base_id", req.Base.ID).
		Str("mode", string(req.Mode)).
		Int("hits", len(hits)).
		Msg("Search completed")
	return hits, nil
}

func (s *Service) rerankHits(ctx context.Context, resolved *models.ResolvedBase, req *Request, hits []Hit) ([]Hit, error) {
	reranker, err := s.rerankReg.CreateReranker(resolved.RerankClient)
	if err != nil {
		return nil, err
	}

	topN := req.RerankTopN
	if topN <= 0 {
		topN = s.cfg.DocumentCount
	}

	documents := make([]string, len(hits))
	for i, hit := range hits {
		documents[i] = hit.Node.Text
	}

	results, err := reranker.Rerank(ctx, req.Query, documents, topN)
	if err != nil {
		return nil, fmt.Errorf("rerank failed: %w", err)
	}

	reranked := make([]Hit, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(hits) {
			continue
		}
		reranked = append(reranked, Hit{Node: hits[r.Index].Node, Score: r.RelevanceScore})
	}
	return reranked, nil
}
