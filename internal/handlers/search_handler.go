package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/services/search"
)

// SearchHandler exposes the search service over HTTP.
type SearchHandler struct {
	search *search.Service
	logger arbor.ILogger
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(searchService *search.Service, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{search: searchService, logger: logger}
}

// SearchRequest is the POST /api/search body.
type SearchRequest struct {
	Base   models.KnowledgeBase `json:"base"`
	Query  string               `json:"query"`
	Mode   models.QueryMode     `json:"mode,omitempty"`
	TopK   int                  `json:"top_k,omitempty"`
	Alpha  *float64             `json:"alpha,omitempty"`
	Rerank bool                 `json:"rerank,omitempty"`
}

// SearchResponse pairs the hits with the mode that produced them.
type SearchResponse struct {
	Hits []search.Hit     `json:"hits"`
	Mode models.QueryMode `json:"mode"`
}

// SearchHandler runs one query against a base.
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = models.QueryModeDefault
	}

	hits, err := h.search.Search(r.Context(), &search.Request{
		Base:   &req.Base,
		Query:  req.Query,
		Mode:   mode,
		TopK:   req.TopK,
		Alpha:  req.Alpha,
		Rerank: req.Rerank,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("base_id", req.Base.ID).Msg("Search failed")
		WriteError(w, statusFromError(err), err.Error())
		return
	}

	if hits == nil {
		hits = []search.Hit{}
	}
	WriteJSON(w, http.StatusOK, SearchResponse{Hits: hits, Mode: mode})
}
