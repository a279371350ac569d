package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// fakeOrchestrator records calls and plays back canned results.
type fakeOrchestrator struct {
	mu             sync.Mutex
	processedItems []string
	cancelled      []string
	cleared        []string
	removed        []string
	cancelResult   models.CancelResult
	progress       map[string]int
	queueStatus    models.QueueStatus
}

func (f *fakeOrchestrator) Process(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem, onStatus interfaces.StatusCallback) {
	f.mu.Lock()
	f.processedItems = append(f.processedItems, item.ID)
	f.mu.Unlock()
	if onStatus != nil {
		onStatus(models.StatusCompleted, "")
	}
}

func (f *fakeOrchestrator) Cancel(itemID string) models.CancelResult {
	f.mu.Lock()
	f.cancelled = append(f.cancelled, itemID)
	f.mu.Unlock()
	return f.cancelResult
}

func (f *fakeOrchestrator) ClearProgress(itemID string) {
	f.mu.Lock()
	f.cleared = append(f.cleared, itemID)
	f.mu.Unlock()
}

func (f *fakeOrchestrator) RemoveVectors(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem) {
	f.mu.Lock()
	f.removed = append(f.removed, base.ID+"/"+item.ID)
	f.mu.Unlock()
}

func (f *fakeOrchestrator) IsQueued(itemID string) bool     { return false }
func (f *fakeOrchestrator) IsProcessing(itemID string) bool { return false }

func (f *fakeOrchestrator) GetProgress(itemID string) (int, bool) {
	v, ok := f.progress[itemID]
	return v, ok
}

func (f *fakeOrchestrator) GetProgressForItems(itemIDs []string) map[string]int {
	out := make(map[string]int)
	for _, id := range itemIDs {
		if v, ok := f.progress[id]; ok {
			out[id] = v
		}
	}
	return out
}

func (f *fakeOrchestrator) GetQueueStatus() models.QueueStatus { return f.queueStatus }

// nullEvents satisfies the event service without delivering anything.
type nullEvents struct{}

func (nullEvents) Subscribe(models.EventType, interfaces.EventHandler) error { return nil }
func (nullEvents) Publish(context.Context, models.Event)                     {}
func (nullEvents) PublishSync(context.Context, models.Event) error           { return nil }

func newKnowledgeHandler(orch *fakeOrchestrator) *KnowledgeHandler {
	return NewKnowledgeHandler(orch, nullEvents{}, arbor.NewLogger())
}

func TestIngestHandler(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := newKnowledgeHandler(orch)

	body := `{"base":{"id":"kb-1","embedding_model_id":"openai:m"},"item":{"id":"item-1","type":"note","data":{"content":"hello"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "started", resp["status"])
	assert.Equal(t, "item-1", resp["item_id"])
	assert.Equal(t, []string{"item-1"}, orch.processedItems)
}

func TestIngestHandlerGeneratesItemID(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := newKnowledgeHandler(orch)

	body := `{"base":{"id":"kb-1"},"item":{"type":"note","data":{"content":"hello"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["item_id"], "item_"))
}

func TestIngestHandlerValidation(t *testing.T) {
	handler := newKnowledgeHandler(&fakeOrchestrator{})

	// Missing base id.
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"item":{"type":"note"}}`))
	rec := httptest.NewRecorder()
	handler.IngestHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed body.
	req = httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{broken`))
	rec = httptest.NewRecorder()
	handler.IngestHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	req = httptest.NewRequest(http.MethodGet, "/api/ingest", nil)
	rec = httptest.NewRecorder()
	handler.IngestHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCancelHandler(t *testing.T) {
	orch := &fakeOrchestrator{cancelResult: models.CancelResultCancelled}
	handler := newKnowledgeHandler(orch)

	req := httptest.NewRequest(http.MethodPost, "/api/cancel", strings.NewReader(`{"item_id":"item-1"}`))
	rec := httptest.NewRecorder()
	handler.CancelHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp["result"])
	assert.Equal(t, []string{"item-1"}, orch.cancelled)
}

func TestCancelHandlerRequiresItemID(t *testing.T) {
	handler := newKnowledgeHandler(&fakeOrchestrator{})

	req := httptest.NewRequest(http.MethodPost, "/api/cancel", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.CancelHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteItemHandler(t *testing.T) {
	orch := &fakeOrchestrator{cancelResult: models.CancelResultIgnored}
	handler := newKnowledgeHandler(orch)

	req := httptest.NewRequest(http.MethodDelete, "/api/items/item-1", strings.NewReader(`{"base":{"id":"kb-1"}}`))
	rec := httptest.NewRecorder()
	handler.DeleteItemHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"item-1"}, orch.cancelled)
	assert.Equal(t, []string{"item-1"}, orch.cleared)
	assert.Equal(t, []string{"kb-1/item-1"}, orch.removed)
}

func TestDeleteItemHandlerValidation(t *testing.T) {
	handler := newKnowledgeHandler(&fakeOrchestrator{})

	// Missing item id in path.
	req := httptest.NewRequest(http.MethodDelete, "/api/items/", strings.NewReader(`{"base":{"id":"kb-1"}}`))
	rec := httptest.NewRecorder()
	handler.DeleteItemHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing base id in body.
	req = httptest.NewRequest(http.MethodDelete, "/api/items/item-1", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	handler.DeleteItemHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressHandler(t *testing.T) {
	orch := &fakeOrchestrator{progress: map[string]int{"a": 40, "b": 90}}
	handler := newKnowledgeHandler(orch)

	req := httptest.NewRequest(http.MethodGet, "/api/progress?item_id=a&item_id=b&item_id=c", nil)
	rec := httptest.NewRecorder()
	handler.ProgressHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]int{"a": 40, "b": 90}, resp)
}

func TestProgressHandlerRequiresItemID(t *testing.T) {
	handler := newKnowledgeHandler(&fakeOrchestrator{})

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	rec := httptest.NewRecorder()
	handler.ProgressHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFromError(models.NewValidationError("f", "bad")))
	assert.Equal(t, http.StatusConflict, statusFromError(models.ErrAlreadyQueued))
	assert.Equal(t, http.StatusTooManyRequests, statusFromError(models.ErrQueueFull))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(assert.AnError))
}
