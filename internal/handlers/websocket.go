// -----------------------------------------------------------------------
// WebSocket Events Handler - relays pipeline events to connected clients
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler broadcasts item status, progress and directory events to
// every connected client.
type WebSocketHandler struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
	events  interfaces.EventService
	logger  arbor.ILogger
}

// NewWebSocketHandler creates the handler and subscribes it to the pipeline
// event stream.
func NewWebSocketHandler(events interfaces.EventService, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		events:  events,
		logger:  logger,
	}

	for _, eventType := range []models.EventType{
		models.EventItemStatus,
		models.EventItemProgress,
		models.EventDirectoryPercent,
	} {
		events.Subscribe(eventType, h.relay)
	}
	return h
}

// relay forwards one pipeline event to every connected client.
func (h *WebSocketHandler) relay(ctx context.Context, event models.Event) error {
	h.Broadcast(event)
	return nil
}

// HandleEvents upgrades the connection and keeps it registered until the
// client disconnects. Routed as GET /ws/events.
func (h *WebSocketHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Int("clients", count).Msg("WebSocket client connected")

	// Reads are discarded; the socket exists to push events out. The read
	// loop detects disconnects.
	go func() {
		defer h.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *WebSocketHandler) dropClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	conn.Close()
	h.logger.Debug().Int("clients", count).Msg("WebSocket client disconnected")
}

// Broadcast writes the event to every connected client. Write failures drop
// the client.
func (h *WebSocketHandler) Broadcast(event models.Event) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	locks := make([]*sync.Mutex, 0, len(h.clients))
	for conn, lock := range h.clients {
		conns = append(conns, conn)
		locks = append(locks, lock)
	}
	h.mu.Unlock()

	for i, conn := range conns {
		locks[i].Lock()
		err := conn.WriteJSON(event)
		locks[i].Unlock()
		if err != nil {
			h.logger.Debug().Err(err).Msg("WebSocket write failed, dropping client")
			h.dropClient(conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
