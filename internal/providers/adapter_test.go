package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/models"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name         string
		apiHost      string
		providerType string
		providerID   string
		expected     string
	}{
		{
			name:         "gemini host gains openai compat path",
			apiHost:      "https://g.example.com/",
			providerType: "gemini",
			providerID:   "gemini",
			expected:     "https://g.example.com/openai",
		},
		{
			name:         "ollama trailing api segment is stripped",
			apiHost:      "http://localhost:11434/api",
			providerType: "openai",
			providerID:   "ollama",
			expected:     "http://localhost:11434",
		},
		{
			name:         "pinned endpoint loses known completion suffix",
			apiHost:      "https://e.example.com/v1/chat/completions#",
			providerType: "openai",
			providerID:   "custom",
			expected:     "https://e.example.com/v1",
		},
		{
			name:         "azure gains v1 path",
			apiHost:      "https://azure.example.com",
			providerType: "azure-openai",
			providerID:   "azure",
			expected:     "https://azure.example.com/v1",
		},
		{
			name:         "trailing slashes trimmed",
			apiHost:      "https://api.example.com///",
			providerType: "openai",
			providerID:   "openai",
			expected:     "https://api.example.com",
		},
		{
			name:         "pinned endpoint without known suffix keeps path",
			apiHost:      "https://e.example.com/v1/embeddings#",
			providerType: "openai",
			providerID:   "custom",
			expected:     "https://e.example.com/v1/embeddings",
		},
		{
			name:         "empty host stays empty",
			apiHost:      "",
			providerType: "gemini",
			providerID:   "gemini",
			expected:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBaseURL(tt.apiHost, tt.providerType, tt.providerID))
		})
	}
}

func newTestAdapter() *Adapter {
	logger := arbor.NewLogger()
	catalog := NewCatalog(logger)
	catalog.Register(&models.ProviderDescriptor{
		ID:      "openai",
		Type:    "openai",
		APIHost: "https://api.openai.com/v1",
		APIKey:  "sk-test",
	})
	catalog.Register(&models.ProviderDescriptor{
		ID:   "broken",
		Type: "openai",
	})
	return NewAdapter(catalog, common.ChunkingConfig{ChunkSize: 1024, ChunkOverlap: 20}, logger)
}

func TestResolveBase(t *testing.T) {
	adapter := newTestAdapter()

	base := &models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "openai:text-embedding-3-small",
		Dimensions:       1536,
	}

	resolved, err := adapter.ResolveBase(base, false)
	require.NoError(t, err)
	assert.Equal(t, "kb-1", resolved.ID)
	assert.Equal(t, 1536, resolved.Dimensions)
	assert.Equal(t, "text-embedding-3-small", resolved.EmbedClient.Model)
	assert.Equal(t, "https://api.openai.com/v1", resolved.EmbedClient.BaseURL)
	assert.Equal(t, "sk-test", resolved.EmbedClient.APIKey)
	assert.Nil(t, resolved.RerankClient)

	// Chunking defaults fill in when the base omits them.
	assert.Equal(t, 1024, resolved.ChunkSize)
	assert.Equal(t, 20, resolved.ChunkOverlap)
}

func TestResolveBaseKeepsExplicitChunking(t *testing.T) {
	adapter := newTestAdapter()

	base := &models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "openai:text-embedding-3-small",
		ChunkSize:        256,
		ChunkOverlap:     32,
	}

	resolved, err := adapter.ResolveBase(base, false)
	require.NoError(t, err)
	assert.Equal(t, 256, resolved.ChunkSize)
	assert.Equal(t, 32, resolved.ChunkOverlap)
}

func TestResolveBaseBareModelUsesMetaProvider(t *testing.T) {
	adapter := newTestAdapter()

	base := &models.KnowledgeBase{
		ID:                "kb-1",
		EmbeddingModelID:  "text-embedding-3-small",
		EmbeddingProvider: "openai",
	}

	resolved, err := adapter.ResolveBase(base, false)
	require.NoError(t, err)
	assert.Equal(t, "openai", resolved.EmbedClient.Provider)
	assert.Equal(t, "text-embedding-3-small", resolved.EmbedClient.Model)
}

func TestResolveBaseValidation(t *testing.T) {
	adapter := newTestAdapter()

	_, err := adapter.ResolveBase(nil, false)
	assert.True(t, models.IsValidation(err))

	_, err = adapter.ResolveBase(&models.KnowledgeBase{ID: "kb-1"}, false)
	assert.True(t, models.IsValidation(err))

	// Bare model id without a provider anywhere.
	_, err = adapter.ResolveBase(&models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "text-embedding-3-small",
	}, false)
	assert.True(t, models.IsValidation(err))

	// Unknown provider id.
	_, err = adapter.ResolveBase(&models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "nope:model",
	}, false)
	assert.True(t, models.IsValidation(err))
}

func TestResolveBaseRerank(t *testing.T) {
	adapter := newTestAdapter()

	base := &models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "openai:text-embedding-3-small",
	}

	// Rerank requested but the base has no rerank model.
	_, err := adapter.ResolveBase(base, true)
	assert.True(t, models.IsValidation(err))

	base.RerankModelID = "openai:rerank-lite"
	resolved, err := adapter.ResolveBase(base, true)
	require.NoError(t, err)
	require.NotNil(t, resolved.RerankClient)
	assert.Equal(t, "rerank-lite", resolved.RerankClient.Model)

	// Not requested: the rerank model is left unresolved.
	resolved, err = adapter.ResolveBase(base, false)
	require.NoError(t, err)
	assert.Nil(t, resolved.RerankClient)
}

func TestResolveBaseMissingHost(t *testing.T) {
	adapter := newTestAdapter()

	_, err := adapter.ResolveBase(&models.KnowledgeBase{
		ID:               "kb-1",
		EmbeddingModelID: "broken:some-model",
	}, false)
	require.Error(t, err)
	assert.True(t, models.IsServiceUnavailable(err))
}

func TestParseModelRef(t *testing.T) {
	ref := models.ParseModelRef("openai:text-embedding-3-small", "")
	assert.Equal(t, "openai", ref.Provider)
	assert.Equal(t, "text-embedding-3-small", ref.Model)

	ref = models.ParseModelRef("nomic-embed-text", "ollama")
	assert.Equal(t, "ollama", ref.Provider)
	assert.Equal(t, "nomic-embed-text", ref.Model)

	ref = models.ParseModelRef(" openai : model ", "")
	assert.Equal(t, "openai", ref.Provider)
	assert.Equal(t, "model", ref.Model)
}
