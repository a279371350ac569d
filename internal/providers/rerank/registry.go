// Package rerank holds the rerank provider registry and the built-in
// adapters (voyageai, bailian, jina, tei, and the generic OpenAI-style
// default).
package rerank

import (
	"sync"

	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// Registry resolves provider ids to rerank adapters. Unlike the embedding
// registry, matching is delegated to each provider's Matches so ids can be
// claimed by prefix or substring (any id containing "tei" uses the TEI
// adapter).
type Registry struct {
	mu        sync.RWMutex
	providers []interfaces.RerankProvider
	fallback  interfaces.RerankProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with the built-in rerank providers
// and the generic fallback registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewVoyageProvider())
	r.Register(NewBailianProvider())
	r.Register(NewJinaProvider())
	r.Register(NewTEIProvider())
	r.SetFallback(NewDefaultProvider())
	return r
}

// Register appends a provider; earlier registrations win on overlap.
func (r *Registry) Register(p interfaces.RerankProvider) {
	r.mu.Lock()
	r.providers = append(r.providers, p)
	r.mu.Unlock()
}

// SetFallback sets the catch-all provider.
func (r *Registry) SetFallback(p interfaces.RerankProvider) {
	r.mu.Lock()
	r.fallback = p
	r.mu.Unlock()
}

// Resolve returns the first provider whose Matches accepts the id, the
// fallback when none match, or an error when neither exists.
func (r *Registry) Resolve(providerID string) (interfaces.RerankProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Matches(providerID) {
			return p, nil
		}
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, models.ErrNoProviderFound
}

// CreateReranker resolves the provider for the client and wraps it in an
// HTTP reranker.
func (r *Registry) CreateReranker(client *models.ClientInfo) (interfaces.Reranker, error) {
	provider, err := r.Resolve(client.Provider)
	if err != nil {
		return nil, err
	}
	return NewClient(provider, client), nil
}
