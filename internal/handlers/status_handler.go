package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// StatusHandler reports queue and application status.
type StatusHandler struct {
	orchestrator interfaces.Orchestrator
	logger       arbor.ILogger
}

// NewStatusHandler creates the status handler.
func NewStatusHandler(orchestrator interfaces.Orchestrator, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{orchestrator: orchestrator, logger: logger}
}

// StatusResponse is the GET /api/status body. Item fields are present only
// when the request names an item_id.
type StatusResponse struct {
	Queue      models.QueueStatus `json:"queue"`
	ItemID     string             `json:"item_id,omitempty"`
	Queued     *bool              `json:"queued,omitempty"`
	Processing *bool              `json:"processing,omitempty"`
	Progress   *int               `json:"progress,omitempty"`
}

// GetStatusHandler returns the queue snapshot, plus per-item state when
// ?item_id= is given.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp := StatusResponse{Queue: h.orchestrator.GetQueueStatus()}

	if itemID := r.URL.Query().Get("item_id"); itemID != "" {
		queued := h.orchestrator.IsQueued(itemID)
		processing := h.orchestrator.IsProcessing(itemID)
		resp.ItemID = itemID
		resp.Queued = &queued
		resp.Processing = &processing
		if progress, ok := h.orchestrator.GetProgress(itemID); ok {
			resp.Progress = &progress
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

// VersionHandler returns build information.
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// HealthHandler is a liveness probe.
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
