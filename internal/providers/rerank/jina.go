package rerank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/noesis/internal/interfaces"
)

// multimodalJinaModel needs documents wrapped as typed parts instead of
// plain strings.
const multimodalJinaModel = "jina-reranker-m0"

// JinaProvider adapts the Jina rerank endpoint, special-casing the
// multimodal m0 model's document shape.
type JinaProvider struct{}

// NewJinaProvider creates the jina adapter.
func NewJinaProvider() *JinaProvider { return &JinaProvider{} }

func (p *JinaProvider) ID() string { return "jina" }

func (p *JinaProvider) Matches(providerID string) bool {
	return strings.Contains(strings.ToLower(providerID), "jina")
}

func (p *JinaProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		return "https://api.jina.ai/v1/rerank"
	}
	return baseURL + "/rerank"
}

func (p *JinaProvider) BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{} {
	body := map[string]interface{}{
		"model": model,
		"query": query,
		"top_n": topN,
	}

	if model == multimodalJinaModel {
		docs := make([]map[string]interface{}, 0, len(documents))
		for _, d := range documents {
			docs = append(docs, map[string]interface{}{"text": d})
		}
		body["documents"] = docs
	} else {
		body["documents"] = documents
	}

	return body
}

type jinaResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (p *JinaProvider) ExtractResults(body []byte) ([]interfaces.RerankResult, error) {
	var resp jinaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode jina response: %w", err)
	}
	results := make([]interfaces.RerankResult, 0, len(resp.Results))
	for _, d := range resp.Results {
		results = append(results, interfaces.RerankResult{Index: d.Index, RelevanceScore: d.RelevanceScore})
	}
	return results, nil
}
