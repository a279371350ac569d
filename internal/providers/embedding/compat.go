package embedding

import (
	"time"

	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// DefaultOpenAIEndpoint is used when a compatible provider has no base URL.
const DefaultOpenAIEndpoint = "https://api.openai.com"

// CompatProvider is the catch-all adapter for any OpenAI-compatible
// endpoint. It posts to {baseURL}/v1/embeddings and publishes dimensions
// under both "openai-compatible" and the caller's provider id.
type CompatProvider struct{}

// NewCompatProvider creates the fallback adapter.
func NewCompatProvider() *CompatProvider { return &CompatProvider{} }

func (p *CompatProvider) ID() string { return "openai-compatible" }

func (p *CompatProvider) CreateModel(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	baseURL := client.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIEndpoint
	}
	return &openAIEmbedder{
		endpoint:   baseURL + "/v1/embeddings",
		apiKey:     client.APIKey,
		model:      client.Model,
		dimensions: dimensions,
		client:     httpclient.NewDefaultHTTPClient(60 * time.Second),
	}, nil
}

func (p *CompatProvider) BuildProviderOptions(dimensions int) map[string]interface{} {
	if dimensions <= 0 {
		return nil
	}
	return map[string]interface{}{
		"openai-compatible": map[string]interface{}{"dimensions": dimensions},
	}
}

// BuildProviderOptionsFor mirrors BuildProviderOptions but also publishes
// the dimensions under the caller's own provider id.
func (p *CompatProvider) BuildProviderOptionsFor(providerID string, dimensions int) map[string]interface{} {
	opts := p.BuildProviderOptions(dimensions)
	if opts == nil || providerID == "" || providerID == p.ID() {
		return opts
	}
	opts[providerID] = map[string]interface{}{"dimensions": dimensions}
	return opts
}
