package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/providers"
	"github.com/ternarybob/noesis/internal/providers/embedding"
	"github.com/ternarybob/noesis/internal/providers/rerank"
	"github.com/ternarybob/noesis/internal/services/search"
	"github.com/ternarybob/noesis/internal/store"
)

// countEmbedder scores a text by how many times each tracked word occurs.
type countEmbedder struct{}

var countBuckets = map[string]int{"alpha": 0, "beta": 1, "gamma": 2}

func (e *countEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if bucket, ok := countBuckets[word]; ok {
			vec[bucket]++
		} else {
			vec[3]++
		}
	}
	return vec, nil
}

func (e *countEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, _ := e.Embed(ctx, text)
		vectors[i] = v
	}
	return vectors, nil
}

type countProvider struct{}

func (p *countProvider) ID() string { return "fake" }
func (p *countProvider) CreateModel(client *models.ClientInfo, dimensions int) (interfaces.Embedder, error) {
	return &countEmbedder{}, nil
}
func (p *countProvider) BuildProviderOptions(dimensions int) map[string]interface{} { return nil }

func newSearchHandlerEnv(t *testing.T) (*SearchHandler, *store.Manager) {
	t.Helper()
	logger := arbor.NewLogger()

	catalog := providers.NewCatalog(logger)
	catalog.Register(&models.ProviderDescriptor{ID: "fake", Type: "openai", APIHost: "http://localhost:1"})
	adapter := providers.NewAdapter(catalog, common.ChunkingConfig{ChunkSize: 1024, ChunkOverlap: 20}, logger)

	embedReg := embedding.NewRegistry()
	embedReg.Register(&countProvider{})

	stores := store.NewManager(t.TempDir(), logger)
	t.Cleanup(func() { stores.Close() })

	service := search.NewService(adapter, embedReg, rerank.NewDefaultRegistry(), stores,
		common.SearchConfig{DocumentCount: 6, DefaultAlpha: 0.5}, logger)

	return NewSearchHandler(service, logger), stores
}

func seedSearchNodes(t *testing.T, stores *store.Manager, baseID string, texts []string) {
	t.Helper()
	vectorStore, err := stores.GetStore(baseID)
	require.NoError(t, err)

	embedder := &countEmbedder{}
	nodes := make([]*models.Node, len(texts))
	for i, text := range texts {
		vec, _ := embedder.Embed(context.Background(), text)
		nodes[i] = &models.Node{
			ID:        common.NewNodeID(),
			Text:      text,
			Metadata:  map[string]interface{}{models.MetaExternalID: "item-1"},
			Embedding: vec,
		}
	}
	_, err = vectorStore.Add(context.Background(), nodes)
	require.NoError(t, err)
}

func TestSearchHandler(t *testing.T) {
	handler, stores := newSearchHandlerEnv(t)
	seedSearchNodes(t, stores, "kb-1", []string{
		"alpha alpha alpha",
		"beta beta beta",
		"gamma gamma gamma",
	})

	body := `{"base":{"id":"kb-1","embedding_model_id":"fake:word"},"query":"gamma","mode":"bm25","top_k":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.QueryModeBM25, resp.Mode)
	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "gamma gamma gamma", resp.Hits[0].Node.Text)
}

func TestSearchHandlerDefaultsMode(t *testing.T) {
	handler, stores := newSearchHandlerEnv(t)
	seedSearchNodes(t, stores, "kb-1", []string{"alpha document"})

	body := `{"base":{"id":"kb-1","embedding_model_id":"fake:word"},"query":"alpha"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.QueryModeDefault, resp.Mode)
	require.Len(t, resp.Hits, 1)
}

func TestSearchHandlerEmptyBaseReturnsEmptyArray(t *testing.T) {
	handler, _ := newSearchHandlerEnv(t)

	body := `{"base":{"id":"kb-empty","embedding_model_id":"fake:word"},"query":"alpha"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// nil hits serialize as an empty array, never null.
	assert.Contains(t, rec.Body.String(), `"hits":[]`)
}

func TestSearchHandlerValidation(t *testing.T) {
	handler, _ := newSearchHandlerEnv(t)

	// Empty query.
	body := `{"base":{"id":"kb-1","embedding_model_id":"fake:word"},"query":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed body.
	req = httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{broken`))
	rec = httptest.NewRecorder()
	handler.SearchHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	req = httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec = httptest.NewRecorder()
	handler.SearchHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
