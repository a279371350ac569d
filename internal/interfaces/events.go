package interfaces

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// EventHandler processes a published event.
type EventHandler func(ctx context.Context, event models.Event) error

// EventService is the pub/sub channel between the pipeline and its
// collaborators (directory progress, status stream, websocket relay).
type EventService interface {
	Subscribe(eventType models.EventType, handler EventHandler) error
	Publish(ctx context.Context, event models.Event)
	PublishSync(ctx context.Context, event models.Event) error
}
