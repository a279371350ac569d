package rerank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/noesis/internal/interfaces"
)

// TEIProvider adapts Hugging Face text-embeddings-inference rerank servers.
// Any provider id containing "tei" is claimed.
type TEIProvider struct{}

// NewTEIProvider creates the tei adapter.
func NewTEIProvider() *TEIProvider { return &TEIProvider{} }

func (p *TEIProvider) ID() string { return "tei" }

func (p *TEIProvider) Matches(providerID string) bool {
	return strings.Contains(strings.ToLower(providerID), "tei")
}

func (p *TEIProvider) BuildURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/rerank"
}

func (p *TEIProvider) BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{} {
	// TEI serves a single model; the model field is not part of its API.
	return map[string]interface{}{
		"query": query,
		"texts": documents,
	}
}

// TEI returns a bare array of {index, score}.
type teiResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

func (p *TEIProvider) ExtractResults(body []byte) ([]interfaces.RerankResult, error) {
	var resp []teiResult
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tei response: %w", err)
	}
	results := make([]interfaces.RerankResult, 0, len(resp))
	for _, d := range resp {
		results = append(results, interfaces.RerankResult{Index: d.Index, RelevanceScore: d.Score})
	}
	return results, nil
}
