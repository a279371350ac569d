package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// openAIEmbedder talks to an OpenAI-style /embeddings endpoint. It is shared
// by the openai provider and the OpenAI-compatible fallback; only the
// endpoint derivation and options key differ.
type openAIEmbedder struct {
	endpoint   string
	apiKey     string
	model      string
	dimensions int
	client     *http.Client
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (e *openAIEmbedder) headers() map[string]string {
	h := map[string]string{}
	if e.apiKey != "" {
		h["Authorization"] = "Bearer " + e.apiKey
	}
	return h
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding endpoint returned no vectors")
	}
	return vectors[0], nil
}

func (e *openAIEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]interface{}{
		"model": e.model,
		"input": texts,
	}
	if e.dimensions > 0 {
		payload["dimensions"] = e.dimensions
	}

	body, err := httpclient.PostJSON(ctx, e.client, e.endpoint, e.headers(), payload)
	if err != nil {
		return nil, err
	}

	var resp openAIEmbeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The endpoint reports an index per vector; order by it so results
	// always align with the input order.
	vectors := make([][]float32, len(texts))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = d.Embedding
	}
	return vectors, nil
}

// OpenAIProvider uses the configured base URL as-is and attaches dimensions
// under the "openai" key.
type OpenAIProvider struct{}

// NewOpenAIProvider creates the openai adapter.
func NewOpenAIProvider() *OpenAIProvider { return &OpenAIProvider{} }

func (p *OpenAIProvider) ID() string { return "openai" }

func (p *OpenAIProvider) CreateModel(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	if client.BaseURL == "" {
		return nil, &models.ServiceUnavailableError{Service: p.ID(), Detail: "missing base URL"}
	}
	return &openAIEmbedder{
		endpoint:   client.BaseURL + "/embeddings",
		apiKey:     client.APIKey,
		model:      client.Model,
		dimensions: dimensions,
		client:     httpclient.NewDefaultHTTPClient(60 * time.Second),
	}, nil
}

func (p *OpenAIProvider) BuildProviderOptions(dimensions int) map[string]interface{} {
	if dimensions <= 0 {
		return nil
	}
	return map[string]interface{}{
		"openai": map[string]interface{}{"dimensions": dimensions},
	}
}
