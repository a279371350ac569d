package interfaces

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// Embedder converts text into fixed-length vectors. Implementations must be
// deterministic with respect to input order, and every vector produced for a
// given base must have the same length.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingProvider adapts one provider family (openai, ollama, gemini, ...)
// to the Embedder contract.
type EmbeddingProvider interface {
	// ID is the provider tag this adapter registers under.
	ID() string

	// CreateModel builds an embedder from resolved client settings.
	// dimensions is 0 when the base leaves the vector length to the model.
	CreateModel(client *models.ClientInfo, dimensions int) (Embedder, error)

	// BuildProviderOptions returns the provider-keyed options attached to
	// embedding requests, or nil when dimensions are unset.
	BuildProviderOptions(dimensions int) map[string]interface{}
}
