// -----------------------------------------------------------------------
// Knowledge Handler - ingest, cancel, delete, progress
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// KnowledgeHandler exposes the orchestrator over HTTP.
type KnowledgeHandler struct {
	orchestrator interfaces.Orchestrator
	events       interfaces.EventService
	logger       arbor.ILogger
}

// NewKnowledgeHandler creates the knowledge handler.
func NewKnowledgeHandler(orchestrator interfaces.Orchestrator, events interfaces.EventService, logger arbor.ILogger) *KnowledgeHandler {
	return &KnowledgeHandler{
		orchestrator: orchestrator,
		events:       events,
		logger:       logger,
	}
}

// IngestRequest carries a base and the item to ingest into it.
type IngestRequest struct {
	Base models.KnowledgeBase `json:"base"`
	Item models.KnowledgeItem `json:"item"`
}

// IngestHandler enqueues an item. The response acknowledges acceptance;
// status transitions stream on the events websocket.
func (h *KnowledgeHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item.ID == "" {
		req.Item.ID = common.NewItemID()
	}
	if req.Base.ID == "" {
		WriteError(w, http.StatusBadRequest, "base.id is required")
		return
	}

	item := req.Item
	h.orchestrator.Process(r.Context(), &req.Base, &item, func(status models.ItemStatus, errorMessage string) {
		h.publishStatus(item.ID, status, errorMessage)
	})

	WriteStarted(w, item.ID)
}

func (h *KnowledgeHandler) publishStatus(itemID string, status models.ItemStatus, errorMessage string) {
	payload := map[string]interface{}{
		"item_id": itemID,
		"status":  string(status),
	}
	if errorMessage != "" {
		payload["error"] = errorMessage
	}
	h.events.Publish(context.Background(), models.Event{Type: models.EventItemStatus, Payload: payload})
}

// CancelRequest identifies the item whose job should be cancelled.
type CancelRequest struct {
	ItemID string `json:"item_id"`
}

// CancelHandler cancels a queued or running job.
func (h *KnowledgeHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		WriteError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	result := h.orchestrator.Cancel(req.ItemID)
	WriteJSON(w, http.StatusOK, map[string]string{
		"item_id": req.ItemID,
		"result":  string(result),
	})
}

// DeleteItemRequest carries the base an item's vectors should be removed from.
type DeleteItemRequest struct {
	Base models.KnowledgeBase `json:"base"`
}

// DeleteItemHandler cancels any job for the item, then removes its vectors.
// Routed as DELETE /api/items/{id}.
func (h *KnowledgeHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	itemID := strings.TrimPrefix(r.URL.Path, "/api/items/")
	if itemID == "" || strings.Contains(itemID, "/") {
		WriteError(w, http.StatusBadRequest, "item id is required")
		return
	}

	var req DeleteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Base.ID == "" {
		WriteError(w, http.StatusBadRequest, "base.id is required")
		return
	}

	h.orchestrator.Cancel(itemID)
	h.orchestrator.ClearProgress(itemID)
	h.orchestrator.RemoveVectors(r.Context(), &req.Base, &models.KnowledgeItem{ID: itemID})

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "deleted",
		"item_id": itemID,
	})
}

// ProgressHandler returns committed progress for the requested items:
// GET /api/progress?item_id=a&item_id=b.
func (h *KnowledgeHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	itemIDs := r.URL.Query()["item_id"]
	if len(itemIDs) == 0 {
		WriteError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	WriteJSON(w, http.StatusOK, h.orchestrator.GetProgressForItems(itemIDs))
}
