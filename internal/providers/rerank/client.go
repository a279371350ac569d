package rerank

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// Client executes one provider's rerank contract over HTTP.
type Client struct {
	provider interfaces.RerankProvider
	info     *models.ClientInfo
	http     *http.Client
}

// NewClient wraps a rerank provider and its resolved client settings.
func NewClient(provider interfaces.RerankProvider, info *models.ClientInfo) *Client {
	return &Client{
		provider: provider,
		info:     info,
		http:     httpclient.NewDefaultHTTPClient(60 * time.Second),
	}
}

// Rerank scores the documents against the query and returns results ordered
// by descending relevance.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topN int) ([]interfaces.RerankResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}

	endpoint := c.provider.BuildURL(c.info.BaseURL)
	payload := c.provider.BuildRequestBody(query, documents, topN, c.info.Model)

	headers := map[string]string{}
	if c.info.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.info.APIKey
	}

	body, err := httpclient.PostJSON(ctx, c.http, endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	results, err := c.provider.ExtractResults(body)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
