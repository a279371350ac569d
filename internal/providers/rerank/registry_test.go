package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/noesis/internal/models"
)

func TestRegistryMatching(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		providerID string
		wantID     string
	}{
		{"voyageai", "voyageai"},
		{"voyage", "voyageai"},
		{"bailian", "bailian"},
		{"jina", "jina"},
		{"my-jina-deployment", "jina"},
		{"tei", "tei"},
		{"local-tei-server", "tei"},
		{"anything-else", "default"},
	}

	for _, tt := range tests {
		p, err := r.Resolve(tt.providerID)
		require.NoError(t, err, tt.providerID)
		assert.Equal(t, tt.wantID, p.ID(), "provider id %q", tt.providerID)
	}
}

func TestRegistryWithoutFallback(t *testing.T) {
	r := NewRegistry()
	r.Register(NewJinaProvider())

	_, err := r.Resolve("jina")
	require.NoError(t, err)

	_, err = r.Resolve("unmatched")
	assert.ErrorIs(t, err, models.ErrNoProviderFound)
}

func TestClientSortsAndTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/rerank", req.URL.Path)
		// Scores arrive unsorted; the client must order them.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"index": 0, "relevance_score": 0.2},
				{"index": 1, "relevance_score": 0.9},
				{"index": 2, "relevance_score": 0.5},
			},
		})
	}))
	defer server.Close()

	client := NewClient(NewDefaultProvider(), &models.ClientInfo{
		Provider: "default",
		Model:    "rr-1",
		BaseURL:  server.URL,
	})

	results, err := client.Rerank(context.Background(), "q", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 0.9, results[0].RelevanceScore)
	assert.Equal(t, 2, results[1].Index)
}

func TestClientEmptyDocuments(t *testing.T) {
	client := NewClient(NewDefaultProvider(), &models.ClientInfo{BaseURL: "http://localhost:1"})
	results, err := client.Rerank(context.Background(), "q", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClientSendsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	}))
	defer server.Close()

	client := NewClient(NewDefaultProvider(), &models.ClientInfo{
		APIKey:  "rk-test",
		BaseURL: server.URL,
	})
	_, err := client.Rerank(context.Background(), "q", []string{"a"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer rk-test", gotAuth)
}

func TestProviderURLs(t *testing.T) {
	assert.Equal(t, "https://api.voyageai.com/v1/rerank", NewVoyageProvider().BuildURL(""))
	assert.Equal(t, "https://example.com/rerank", NewVoyageProvider().BuildURL("https://example.com"))
	assert.Equal(t, "https://api.jina.ai/v1/rerank", NewJinaProvider().BuildURL(""))
	assert.Equal(t, "http://tei.local/rerank", NewTEIProvider().BuildURL("http://tei.local/"))
	assert.Equal(t, "https://example.com/rerank", NewDefaultProvider().BuildURL("https://example.com"))
}

func TestTEIRequestBodyOmitsModel(t *testing.T) {
	body := NewTEIProvider().BuildRequestBody("q", []string{"a"}, 1, "ignored")
	_, hasModel := body["model"]
	assert.False(t, hasModel)
	assert.Equal(t, "q", body["query"])
}
