package interfaces

import (
	"context"
)

// RerankResult is one scored document from a rerank call.
type RerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Reranker scores documents against a query and returns them ordered by
// descending relevance.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)
}

// RerankProvider adapts one rerank endpoint family. Providers are matched by
// id, optionally with substring semantics (any id containing "tei" uses the
// TEI adapter).
type RerankProvider interface {
	// ID is the provider tag this adapter registers under.
	ID() string

	// Matches reports whether this adapter serves the given provider id.
	Matches(providerID string) bool

	// BuildURL derives the rerank endpoint from the provider base URL.
	BuildURL(baseURL string) string

	// BuildRequestBody forms the provider-specific request payload.
	BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{}

	// ExtractResults parses the provider response body into scored indexes.
	ExtractResults(body []byte) ([]RerankResult, error)
}
