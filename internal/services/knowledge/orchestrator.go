// -----------------------------------------------------------------------
// Knowledge Orchestrator - public facade over the processing subsystem
// -----------------------------------------------------------------------

package knowledge

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/queue"
)

// Orchestrator enqueues ingestion jobs and drives status transitions. Errors
// from the pipeline never reach the caller; they surface as failed statuses.
type Orchestrator struct {
	manager   *queue.Manager
	processor *Processor
	stores    interfaces.VectorStoreManager
	logger    arbor.ILogger

	mu        sync.Mutex
	jobTokens map[string]time.Time
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

// NewOrchestrator creates the orchestrator.
func NewOrchestrator(manager *queue.Manager, processor *Processor, stores interfaces.VectorStoreManager, logger arbor.ILogger) *Orchestrator {
	return &Orchestrator{
		manager:   manager,
		processor: processor,
		stores:    stores,
		logger:    logger,
		jobTokens: make(map[string]time.Time),
	}
}

// Process enqueues the item for ingestion. Callbacks from superseded runs
// are suppressed by the job token recorded at enqueue.
func (o *Orchestrator) Process(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem, onStatus interfaces.StatusCallback) {
	job := models.Job{
		BaseID:    base.ID,
		ItemID:    item.ID,
		CreatedAt: time.Now(),
	}

	o.mu.Lock()
	prevToken, hadPrev := o.jobTokens[item.ID]
	o.jobTokens[item.ID] = job.CreatedAt
	o.mu.Unlock()

	emit := func(status models.ItemStatus, errorMessage string) {
		if onStatus == nil {
			return
		}
		if !o.ownsToken(item.ID, job.CreatedAt) {
			return
		}
		onStatus(status, errorMessage)
	}

	task := func(taskCtx context.Context, tc *queue.TaskContext) error {
		return o.processor.Process(taskCtx, &ProcessRequest{
			Base: base,
			Item: item,
			RunStage: func(stageCtx context.Context, stage string, body func() error) error {
				return tc.RunStage(stageCtx, stage, body)
			},
			OnStageChange: func(stage string) {
				emit(models.ItemStatus(stage), "")
			},
			OnProgress: func(percent int) {
				if !o.ownsToken(item.ID, job.CreatedAt) {
					return
				}
				tc.UpdateProgress(percent, false)
			},
		})
	}

	ticket, err := o.manager.Enqueue(job, task)
	if err != nil {
		// A rejected submission must not silence the run that owns the
		// slot: put its token back.
		o.mu.Lock()
		if hadPrev {
			o.jobTokens[item.ID] = prevToken
		} else {
			delete(o.jobTokens, item.ID)
		}
		o.mu.Unlock()

		o.logger.Error().Err(err).Str("item_id", item.ID).Msg("Failed to enqueue item")
		emitDirect(onStatus, models.StatusFailed, err.Error())
		return
	}

	common.SafeGo(o.logger, "ingest-settle", func() {
		err := ticket.Wait()
		switch {
		case err == nil:
			o.manager.UpdateProgress(item.ID, 100, true)
			emit(models.StatusCompleted, "")
		case models.IsAbort(err):
			o.logger.Debug().Str("item_id", item.ID).Msg("Ingestion cancelled")
			emit(models.StatusFailed, "Cancelled")
		default:
			o.logger.Error().Err(err).
				Str("base_id", base.ID).
				Str("item_id", item.ID).
				Msg("Ingestion failed")
			emit(models.StatusFailed, err.Error())
		}
		o.releaseToken(item.ID, job.CreatedAt)
	})
}

// emitDirect bypasses token checks for synchronous enqueue failures; the
// rejected submission never owned the token.
func emitDirect(onStatus interfaces.StatusCallback, status models.ItemStatus, errorMessage string) {
	if onStatus != nil {
		onStatus(status, errorMessage)
	}
}

func (o *Orchestrator) ownsToken(itemID string, createdAt time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	token, ok := o.jobTokens[itemID]
	return ok && token.Equal(createdAt)
}

// releaseToken removes the token only while it still belongs to this job.
func (o *Orchestrator) releaseToken(itemID string, createdAt time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if token, ok := o.jobTokens[itemID]; ok && token.Equal(createdAt) {
		delete(o.jobTokens, itemID)
	}
}

// Cancel aborts the item's job if queued or processing.
func (o *Orchestrator) Cancel(itemID string) models.CancelResult {
	return o.manager.Cancel(itemID)
}

// ClearProgress drops progress state for the item.
func (o *Orchestrator) ClearProgress(itemID string) {
	o.manager.ClearProgress(itemID)
}

// RemoveVectors deletes the item's nodes from the base. Best effort:
// failures are logged and swallowed.
func (o *Orchestrator) RemoveVectors(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem) {
	store, err := o.stores.GetStore(base.ID)
	if err != nil {
		o.logger.Warn().Err(err).Str("base_id", base.ID).Msg("Failed to open store for vector removal")
		return
	}
	deleted, err := store.DeleteByExternalID(ctx, item.ID)
	if err != nil {
		o.logger.Warn().Err(err).
			Str("base_id", base.ID).
			Str("item_id", item.ID).
			Msg("Failed to remove vectors")
		return
	}
	o.logger.Debug().
		Str("base_id", base.ID).
		Str("item_id", item.ID).
		Int("deleted", deleted).
		Msg("Vectors removed")
}

// IsQueued reports whether the item is waiting for a slot.
func (o *Orchestrator) IsQueued(itemID string) bool {
	return o.manager.IsQueued(itemID)
}

// IsProcessing reports whether the item's job is running.
func (o *Orchestrator) IsProcessing(itemID string) bool {
	return o.manager.IsProcessing(itemID)
}

// GetProgress returns the committed progress for the item, if fresh.
func (o *Orchestrator) GetProgress(itemID string) (int, bool) {
	return o.manager.GetProgress(itemID)
}

// GetProgressForItems returns committed progress for each requested item.
func (o *Orchestrator) GetProgressForItems(itemIDs []string) map[string]int {
	return o.manager.GetProgressForItems(itemIDs)
}

// GetQueueStatus returns a snapshot of queue depth and active counts.
func (o *Orchestrator) GetQueueStatus() models.QueueStatus {
	return o.manager.GetStatus()
}
