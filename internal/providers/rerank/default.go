package rerank

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/noesis/internal/interfaces"
)

// DefaultProvider is the generic OpenAI-style rerank fallback:
// {results: [{index, relevance_score}]} posted to {baseURL}/rerank.
type DefaultProvider struct{}

// NewDefaultProvider creates the generic fallback adapter.
func NewDefaultProvider() *DefaultProvider { return &DefaultProvider{} }

func (p *DefaultProvider) ID() string { return "default" }

func (p *DefaultProvider) Matches(providerID string) bool {
	// Fallback only; the registry reaches it when nothing else matches.
	return false
}

func (p *DefaultProvider) BuildURL(baseURL string) string {
	return baseURL + "/rerank"
}

func (p *DefaultProvider) BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{} {
	return map[string]interface{}{
		"model":     model,
		"query":     query,
		"documents": documents,
		"top_n":     topN,
	}
}

type defaultResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (p *DefaultProvider) ExtractResults(body []byte) ([]interfaces.RerankResult, error) {
	var resp defaultResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}
	results := make([]interfaces.RerankResult, 0, len(resp.Results))
	for _, d := range resp.Results {
		results = append(results, interfaces.RerankResult{Index: d.Index, RelevanceScore: d.RelevanceScore})
	}
	return results, nil
}
