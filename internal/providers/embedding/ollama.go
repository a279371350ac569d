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

// ollamaEmbedder talks to Ollama's native /api/embed endpoint.
type ollamaEmbedder struct {
	endpoint   string
	model      string
	dimensions int
	client     *http.Client
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("ollama returned no embeddings")
	}
	return vectors[0], nil
}

func (e *ollamaEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]interface{}{
		"model": e.model,
		"input": texts,
	}
	if e.dimensions > 0 {
		payload["options"] = map[string]interface{}{"dimensions": e.dimensions}
	}

	body, err := httpclient.PostJSON(ctx, e.client, e.endpoint, nil, payload)
	if err != nil {
		return nil, err
	}

	var resp ollamaEmbedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// OllamaProvider appends /api to the base URL and passes dimensions under
// the "ollama" key.
type OllamaProvider struct{}

// NewOllamaProvider creates the ollama adapter.
func NewOllamaProvider() *OllamaProvider { return &OllamaProvider{} }

func (p *OllamaProvider) ID() string { return "ollama" }

func (p *OllamaProvider) CreateModel(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	if client.BaseURL == "" {
		return nil, &models.ServiceUnavailableError{Service: p.ID(), Detail: "missing base URL"}
	}
	return &ollamaEmbedder{
		endpoint:   client.BaseURL + "/api/embed",
		model:      client.Model,
		dimensions: dimensions,
		client:     httpclient.NewDefaultHTTPClient(120 * time.Second),
	}, nil
}

func (p *OllamaProvider) BuildProviderOptions(dimensions int) map[string]interface{} {
	if dimensions <= 0 {
		return nil
	}
	return map[string]interface{}{
		"ollama": map[string]interface{}{"dimensions": dimensions},
	}
}
