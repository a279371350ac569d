package interfaces

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// StatusCallback receives item status transitions. errorMessage is non-empty
// exactly when status is failed.
type StatusCallback func(status models.ItemStatus, errorMessage string)

// Orchestrator is the public facade over the knowledge processing subsystem.
// Process never returns pipeline errors to the caller; they are converted to
// status transitions.
type Orchestrator interface {
	Process(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem, onStatus StatusCallback)
	Cancel(itemID string) models.CancelResult
	ClearProgress(itemID string)
	RemoveVectors(ctx context.Context, base *models.KnowledgeBase, item *models.KnowledgeItem)
	IsQueued(itemID string) bool
	IsProcessing(itemID string) bool
	GetProgress(itemID string) (int, bool)
	GetProgressForItems(itemIDs []string) map[string]int
	GetQueueStatus() models.QueueStatus
}
