package models

// EventType identifies a published collaborator event.
type EventType string

const (
	// EventDirectoryPercent carries {item_id, percent} once per completed
	// file while the directory reader walks its tree.
	EventDirectoryPercent EventType = "directory-processing-percent"

	// EventItemStatus carries {item_id, status, error} on status transitions.
	EventItemStatus EventType = "item-status"

	// EventItemProgress carries {item_id, progress} for throttled progress.
	EventItemProgress EventType = "item-progress"
)

// Event is the payload published on the event service.
type Event struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}
