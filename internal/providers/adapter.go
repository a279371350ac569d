// -----------------------------------------------------------------------
// Provider Adapter - resolves a knowledge base into concrete embed and
// rerank client settings, normalizing provider base URLs on the way.
// -----------------------------------------------------------------------

package providers

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/models"
)

// endpointSuffixes are full-endpoint path tails stripped when the api host
// is pinned with a trailing "#".
var endpointSuffixes = []string{
	"chat/completions",
	"responses",
	"messages",
	"generateContent",
	"streamGenerateContent",
}

// Adapter turns base records into ResolvedBase values ready for the
// embedding pipeline and the search path.
type Adapter struct {
	catalog  *Catalog
	chunking common.ChunkingConfig
	logger   arbor.ILogger
}

// NewAdapter creates an adapter over the provider catalog. Chunking defaults
// fill in when a base omits chunk size or overlap.
func NewAdapter(catalog *Catalog, chunking common.ChunkingConfig, logger arbor.ILogger) *Adapter {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Adapter{
		catalog:  catalog,
		chunking: chunking,
		logger:   logger,
	}
}

// ResolveBase resolves the base's embedding client, and its rerank client
// when withRerank is set. A rerank request against a base with no rerank
// model is a validation failure.
func (a *Adapter) ResolveBase(base *models.KnowledgeBase, withRerank bool) (*models.ResolvedBase, error) {
	if base == nil || base.ID == "" {
		return nil, models.NewValidationError("base", "missing knowledge base")
	}

	embedClient, err := a.resolveClient(base.EmbeddingModelID, base.EmbeddingProvider, "embeddingModelId")
	if err != nil {
		return nil, err
	}

	resolved := &models.ResolvedBase{
		ID:           base.ID,
		Dimensions:   base.Dimensions,
		ChunkSize:    base.ChunkSize,
		ChunkOverlap: base.ChunkOverlap,
		EmbedClient:  embedClient,
	}
	if resolved.ChunkSize <= 0 {
		resolved.ChunkSize = a.chunking.ChunkSize
	}
	if resolved.ChunkOverlap <= 0 {
		resolved.ChunkOverlap = a.chunking.ChunkOverlap
	}

	if withRerank {
		if base.RerankModelID == "" {
			return nil, models.NewValidationError("rerankModelId", "base has no rerank model")
		}
		rerankClient, err := a.resolveClient(base.RerankModelID, base.RerankProvider, "rerankModelId")
		if err != nil {
			return nil, err
		}
		resolved.RerankClient = rerankClient
	}

	return resolved, nil
}

// resolveClient parses the model reference, looks up the provider
// descriptor, and normalizes the base URL.
func (a *Adapter) resolveClient(modelID, metaProvider, field string) (*models.ClientInfo, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, models.NewValidationError(field, "model id is empty")
	}

	ref := models.ParseModelRef(modelID, metaProvider)
	if ref.Provider == "" {
		return nil, models.NewValidationError(field, "provider is missing")
	}
	if ref.Model == "" {
		return nil, models.NewValidationError(field, "model is empty")
	}

	desc, ok := a.catalog.Get(ref.Provider)
	if !ok {
		return nil, models.NewValidationError("provider", "unknown provider: "+ref.Provider)
	}

	baseURL := NormalizeBaseURL(desc.APIHost, desc.Type, desc.ID)
	if baseURL == "" {
		return nil, &models.ServiceUnavailableError{Service: ref.Provider, Detail: "provider has no base URL"}
	}

	return &models.ClientInfo{
		Provider: ref.Provider,
		Model:    ref.Model,
		APIKey:   desc.APIKey,
		BaseURL:  baseURL,
	}, nil
}

// NormalizeBaseURL derives the request base URL from a configured api host.
//
// Hosts ending in "#" pin a full endpoint URL: known completion-endpoint
// suffixes are stripped so only the base remains. Provider type gemini gets
// the OpenAI-compat "/openai" path, azure-openai gets "/v1", and provider id
// ollama loses a trailing "/api".
func NormalizeBaseURL(apiHost, providerType, providerID string) string {
	u := strings.TrimSpace(apiHost)
	u = strings.TrimRight(u, "/")

	if strings.HasSuffix(u, "#") {
		u = strings.TrimSuffix(u, "#")
		for _, suffix := range endpointSuffixes {
			if strings.HasSuffix(u, suffix) {
				u = strings.TrimSuffix(u, suffix)
				break
			}
		}
		u = strings.TrimRight(u, "/")
		u = strings.TrimSuffix(u, ":")
	}

	switch providerType {
	case "gemini":
		if u != "" {
			u += "/openai"
		}
	case "azure-openai":
		if u != "" {
			u += "/v1"
		}
	}

	if providerID == "ollama" {
		u = strings.TrimSuffix(u, "/api")
	}

	return u
}
