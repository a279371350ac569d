package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// Service is an in-process pub/sub channel between the pipeline and its
// collaborators (directory progress, status stream, websocket relay).
type Service struct {
	mu          sync.RWMutex
	subscribers map[models.EventType][]interfaces.EventHandler
	logger      arbor.ILogger
}

var _ interfaces.EventService = (*Service)(nil)

// NewService creates the event service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		subscribers: make(map[models.EventType][]interfaces.EventHandler),
		logger:      logger,
	}
}

// Subscribe registers a handler for an event type.
func (s *Service) Subscribe(eventType models.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	count := len(s.subscribers[eventType])
	s.mu.Unlock()

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscriber_count", count).
		Msg("Event handler subscribed")
	return nil
}

// Publish fans the event out to subscribers asynchronously. Handler errors
// are logged, never returned.
func (s *Service) Publish(ctx context.Context, event models.Event) {
	s.mu.RLock()
	handlers := s.subscribers[event.Type]
	s.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		common.SafeGo(s.logger, "event-publish", func() {
			if err := h(ctx, event); err != nil {
				s.logger.Error().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
			}
		})
	}
}

// PublishSync fans the event out and waits for every handler to complete,
// returning an aggregate error when any handler failed.
func (s *Service) PublishSync(ctx context.Context, event models.Event) error {
	s.mu.RLock()
	handlers := s.subscribers[event.Type]
	s.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h interfaces.EventHandler) {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				s.logger.Error().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
				errChan <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errChan)

	failed := 0
	for range errChan {
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("event handlers failed: %d errors", failed)
	}
	return nil
}

// Close drops all subscriptions.
func (s *Service) Close() error {
	s.mu.Lock()
	s.subscribers = make(map[models.EventType][]interfaces.EventHandler)
	s.mu.Unlock()
	return nil
}
