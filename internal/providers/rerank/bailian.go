package rerank

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/noesis/internal/interfaces"
)

// BailianProvider adapts Alibaba Bailian's text-rerank endpoint.
type BailianProvider struct{}

// NewBailianProvider creates the bailian adapter.
func NewBailianProvider() *BailianProvider { return &BailianProvider{} }

func (p *BailianProvider) ID() string { return "bailian" }

func (p *BailianProvider) Matches(providerID string) bool {
	return providerID == "bailian" || providerID == "dashscope"
}

func (p *BailianProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		return "https://dashscope.aliyuncs.com/api/v1/services/rerank/text-rerank/text-rerank"
	}
	return baseURL + "/services/rerank/text-rerank/text-rerank"
}

func (p *BailianProvider) BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{} {
	return map[string]interface{}{
		"model": model,
		"input": map[string]interface{}{
			"query":     query,
			"documents": documents,
		},
		"parameters": map[string]interface{}{
			"top_n":            topN,
			"return_documents": false,
		},
	}
}

type bailianResponse struct {
	Output struct {
		Results []struct {
			Index          int     `json:"index"`
			RelevanceScore float64 `json:"relevance_score"`
		} `json:"results"`
	} `json:"output"`
}

func (p *BailianProvider) ExtractResults(body []byte) ([]interfaces.RerankResult, error) {
	var resp bailianResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode bailian response: %w", err)
	}
	results := make([]interfaces.RerankResult, 0, len(resp.Output.Results))
	for _, d := range resp.Output.Results {
		results = append(results, interfaces.RerankResult{Index: d.Index, RelevanceScore: d.RelevanceScore})
	}
	return results, nil
}
