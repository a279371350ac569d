// Package embedding holds the embedding provider registry and the built-in
// provider adapters (openai, ollama, gemini, and the OpenAI-compatible
// fallback used for any unregistered provider id).
package embedding

import (
	"sync"

	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// Registry maps provider ids to embedding adapters with a catch-all
// fallback for unregistered ids.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]interfaces.EmbeddingProvider
	fallback  interfaces.EmbeddingProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]interfaces.EmbeddingProvider),
	}
}

// NewDefaultRegistry creates a registry with the built-in providers and the
// OpenAI-compatible fallback registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewOpenAIProvider())
	r.Register(NewOllamaProvider())
	r.Register(NewGeminiProvider())
	r.SetFallback(NewCompatProvider())
	return r
}

// Register keys a provider by its id.
func (r *Registry) Register(p interfaces.EmbeddingProvider) {
	r.mu.Lock()
	r.providers[p.ID()] = p
	r.mu.Unlock()
}

// SetFallback sets the catch-all provider used for unregistered ids.
func (r *Registry) SetFallback(p interfaces.EmbeddingProvider) {
	r.mu.Lock()
	r.fallback = p
	r.mu.Unlock()
}

// Resolve returns the direct match for providerID, the fallback when there
// is none, or an error when neither exists.
func (r *Registry) Resolve(providerID string) (interfaces.EmbeddingProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.providers[providerID]; ok {
		return p, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, models.ErrNoProviderFound
}

// CreateEmbedder resolves the provider for the client and builds its model.
func (r *Registry) CreateEmbedder(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	provider, err := r.Resolve(client.Provider)
	if err != nil {
		return nil, err
	}
	return provider.CreateModel(client, dimensions)
}
