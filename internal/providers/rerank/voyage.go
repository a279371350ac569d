package rerank

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/noesis/internal/interfaces"
)

// VoyageProvider adapts the VoyageAI rerank endpoint.
type VoyageProvider struct{}

// NewVoyageProvider creates the voyageai adapter.
func NewVoyageProvider() *VoyageProvider { return &VoyageProvider{} }

func (p *VoyageProvider) ID() string { return "voyageai" }

func (p *VoyageProvider) Matches(providerID string) bool {
	return providerID == "voyageai" || providerID == "voyage"
}

func (p *VoyageProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		return "https://api.voyageai.com/v1/rerank"
	}
	return baseURL + "/rerank"
}

func (p *VoyageProvider) BuildRequestBody(query string, documents []string, topN int, model string) map[string]interface{} {
	return map[string]interface{}{
		"query":     query,
		"documents": documents,
		"top_k":     topN,
		"model":     model,
	}
}

type voyageResponse struct {
	Data []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"data"`
}

func (p *VoyageProvider) ExtractResults(body []byte) ([]interfaces.RerankResult, error) {
	var resp voyageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode voyageai response: %w", err)
	}
	results := make([]interfaces.RerankResult, 0, len(resp.Data))
	for _, d := range resp.Data {
		results = append(results, interfaces.RerankResult{Index: d.Index, RelevanceScore: d.RelevanceScore})
	}
	return results, nil
}
