package models

import (
	"time"
)

// Job identifies one ingestion submission. CreatedAt doubles as the job
// token used by the orchestrator to suppress callbacks from superseded runs.
type Job struct {
	BaseID    string    `json:"base_id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Stage names routed through the queue manager's shared pools.
const (
	StageOCR   = "ocr"
	StageRead  = "read"
	StageEmbed = "embed"
	StageWrite = "write"
)

// ItemStatus values emitted on the orchestrator's status channel.
type ItemStatus string

const (
	StatusOCR       ItemStatus = "ocr"
	StatusRead      ItemStatus = "read"
	StatusEmbed     ItemStatus = "embed"
	StatusCompleted ItemStatus = "completed"
	StatusFailed    ItemStatus = "failed"
)

// CancelResult reports what a cancel call achieved.
type CancelResult string

const (
	CancelResultCancelled CancelResult = "cancelled"
	CancelResultIgnored   CancelResult = "ignored"
)

// QueueStatus is a point-in-time snapshot of the scheduler.
type QueueStatus struct {
	QueuedCount     int            `json:"queued_count"`
	ProcessingCount int            `json:"processing_count"`
	QueuedByBase    map[string]int `json:"queued_by_base"`
	ActiveByBase    map[string]int `json:"active_by_base"`
}
