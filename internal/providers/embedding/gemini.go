package embedding

import (
	"context"
	"fmt"

	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"google.golang.org/genai"
)

// geminiEmbedder embeds through the native Gemini API. Provider type
// "gemini" can also be reached over the OpenAI-compat path; registering the
// native adapter here keeps batching and output dimensionality first-class.
type geminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
}

func (e *geminiEmbedder) config() *genai.EmbedContentConfig {
	if e.dimensions <= 0 {
		return nil
	}
	dim := int32(e.dimensions)
	return &genai.EmbedContentConfig{OutputDimensionality: &dim}
}

func (e *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("gemini returned no embeddings")
	}
	return vectors[0], nil
}

func (e *geminiEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, e.config())
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d vectors for %d inputs", len(result.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// GeminiProvider adapts the Gemini API to the embedder contract.
type GeminiProvider struct{}

// NewGeminiProvider creates the gemini adapter.
func NewGeminiProvider() *GeminiProvider { return &GeminiProvider{} }

func (p *GeminiProvider) ID() string { return "gemini" }

func (p *GeminiProvider) CreateModel(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	if client.APIKey == "" {
		return nil, &models.ServiceUnavailableError{Service: p.ID(), Detail: "missing API key"}
	}

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  client.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiEmbedder{
		client:     genaiClient,
		model:      client.Model,
		dimensions: dimensions,
	}, nil
}

func (p *GeminiProvider) BuildProviderOptions(dimensions int) map[string]interface{} {
	if dimensions <= 0 {
		return nil
	}
	return map[string]interface{}{
		"gemini": map[string]interface{}{"output_dimensionality": dimensions},
	}
}
