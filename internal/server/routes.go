package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket event stream
	mux.HandleFunc("/ws/events", s.app.WSHandler.HandleEvents)

	// Knowledge ingestion
	mux.HandleFunc("/api/ingest", s.app.KnowledgeHandler.IngestHandler)
	mux.HandleFunc("/api/cancel", s.app.KnowledgeHandler.CancelHandler)
	mux.HandleFunc("/api/items/", s.app.KnowledgeHandler.DeleteItemHandler)
	mux.HandleFunc("/api/progress", s.app.KnowledgeHandler.ProgressHandler)

	// Retrieval
	mux.HandleFunc("/api/search", s.app.SearchHandler.SearchHandler)

	// System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)

	return mux
}
