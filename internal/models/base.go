package models

import (
	"strings"
)

// ModelRef identifies a model on a provider. The provider tag is an opaque
// string such as "openai", "ollama", "azure-openai" or "gemini"; unregistered
// ids fall back to the OpenAI-compatible path at resolution time.
type ModelRef struct {
	Provider string `json:"provider" toml:"provider"`
	Model    string `json:"model" toml:"model"`
}

// ParseModelRef parses the serialized "provider:model" form. When the id
// carries no colon the provider is taken from metaProvider (the model's meta
// field on the base record).
func ParseModelRef(id string, metaProvider string) ModelRef {
	if idx := strings.Index(id, ":"); idx >= 0 {
		return ModelRef{
			Provider: strings.TrimSpace(id[:idx]),
			Model:    strings.TrimSpace(id[idx+1:]),
		}
	}
	return ModelRef{
		Provider: strings.TrimSpace(metaProvider),
		Model:    strings.TrimSpace(id),
	}
}

// String returns the serialized provider:model form.
func (r ModelRef) String() string {
	if r.Provider == "" {
		return r.Model
	}
	return r.Provider + ":" + r.Model
}

// KnowledgeBase is the resolved record describing one named, independently
// parameterized collection of embedded chunks. The catalog that persists
// these records lives outside the core; the core only consumes them.
type KnowledgeBase struct {
	ID string `json:"id" validate:"required"`

	// EmbeddingModelID is serialized as "provider:model" or a bare model id
	// paired with EmbeddingProvider.
	EmbeddingModelID  string `json:"embedding_model_id" validate:"required"`
	EmbeddingProvider string `json:"embedding_provider,omitempty"`

	// RerankModelID is optional; empty means the base has no rerank step.
	RerankModelID  string `json:"rerank_model_id,omitempty"`
	RerankProvider string `json:"rerank_provider,omitempty"`

	ChunkSize     int `json:"chunk_size,omitempty"`
	ChunkOverlap  int `json:"chunk_overlap,omitempty"`
	DocumentCount int `json:"document_count,omitempty"`

	// Dimensions pins the vector length for the base. Once the base has
	// nodes its dimensions are fixed; mixing lengths is rejected by the store.
	Dimensions int `json:"dimensions,omitempty"`
}

// ProviderDescriptor describes a configured embedding/rerank endpoint.
type ProviderDescriptor struct {
	ID      string `json:"id" toml:"id"`
	Type    string `json:"type" toml:"type"` // openai, ollama, azure-openai, gemini, ...
	APIHost string `json:"api_host" toml:"api_host"`
	APIKey  string `json:"api_key" toml:"api_key"`
}

// ClientInfo carries the connection details handed to a provider adapter.
type ClientInfo struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// ResolvedBase is the adapter's output: a base plus concrete embed/rerank
// client settings, with chunking and dimensions defaults applied.
type ResolvedBase struct {
	ID           string
	Dimensions   int
	ChunkSize    int
	ChunkOverlap int
	EmbedClient  *ClientInfo
	RerankClient *ClientInfo
}
