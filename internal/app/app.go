// -----------------------------------------------------------------------
// Application wiring - builds every service from configuration
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/handlers"
	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/providers"
	"github.com/ternarybob/noesis/internal/providers/embedding"
	"github.com/ternarybob/noesis/internal/providers/rerank"
	"github.com/ternarybob/noesis/internal/queue"
	"github.com/ternarybob/noesis/internal/readers"
	"github.com/ternarybob/noesis/internal/services/events"
	"github.com/ternarybob/noesis/internal/services/knowledge"
	"github.com/ternarybob/noesis/internal/services/maintenance"
	"github.com/ternarybob/noesis/internal/services/search"
	"github.com/ternarybob/noesis/internal/store"
)

// App holds every constructed service plus the handlers the server mounts.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Catalog      *providers.Catalog
	Adapter      *providers.Adapter
	EmbedReg     *embedding.Registry
	RerankReg    *rerank.Registry
	Stores       *store.Manager
	Queue        *queue.Manager
	Events       *events.Service
	Orchestrator *knowledge.Orchestrator
	Search       *search.Service
	Maintenance  *maintenance.Scheduler

	KnowledgeHandler *handlers.KnowledgeHandler
	SearchHandler    *handlers.SearchHandler
	StatusHandler    *handlers.StatusHandler
	WSHandler        *handlers.WebSocketHandler
}

// New builds the application graph from configuration.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	a.Catalog = providers.NewCatalog(logger)
	if err := a.Catalog.LoadDir(cfg.Providers.Dir); err != nil {
		return nil, fmt.Errorf("failed to load provider descriptors: %w", err)
	}

	a.Adapter = providers.NewAdapter(a.Catalog, cfg.Chunking, logger)
	a.EmbedReg = embedding.NewDefaultRegistry()
	a.RerankReg = rerank.NewDefaultRegistry()

	a.Stores = store.NewManager(cfg.Storage.KnowledgeStoreRoot, logger)
	a.Queue = queue.NewManager(cfg.Queue, logger)
	a.Events = events.NewService(logger)

	readerReg := buildReaders(cfg, a.Events, logger)

	processor := knowledge.NewProcessor(readerReg, a.Adapter, a.EmbedReg, a.Stores, logger)
	a.Orchestrator = knowledge.NewOrchestrator(a.Queue, processor, a.Stores, logger)
	a.Search = search.NewService(a.Adapter, a.EmbedReg, a.RerankReg, a.Stores, cfg.Search, logger)
	a.Maintenance = maintenance.NewScheduler(a.Stores, cfg.Maintenance, logger)

	a.KnowledgeHandler = handlers.NewKnowledgeHandler(a.Orchestrator, a.Events, logger)
	a.SearchHandler = handlers.NewSearchHandler(a.Search, logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Orchestrator, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.Events, logger)

	return a, nil
}

// buildReaders registers one reader per item type.
func buildReaders(cfg *common.Config, eventService *events.Service, logger arbor.ILogger) *readers.Registry {
	client := httpclient.NewDefaultHTTPClient(cfg.Crawler.RequestTimeout)
	fetcher := httpclient.NewFetcher(client, cfg.Crawler.UserAgent, cfg.Crawler.RequestsPerSecond)

	var renderer *readers.Renderer
	if cfg.Crawler.RenderJavaScript {
		renderer = readers.NewRenderer(cfg.Crawler.UserAgent, cfg.Crawler.JavaScriptWaitTime, logger)
	}

	reg := readers.NewRegistry()
	reg.Register(readers.NewNoteReader())
	reg.Register(readers.NewFileReader(logger))
	reg.Register(readers.NewDirectoryReader(eventService, logger))
	reg.Register(readers.NewURLReader(fetcher, renderer, logger))
	reg.Register(readers.NewSitemapReader(fetcher, cfg.Crawler.SitemapTimeout, cfg.Crawler.SitemapConcurrency, logger))
	return reg
}

// Start begins background services.
func (a *App) Start() error {
	return a.Maintenance.Start()
}

// Shutdown stops background services and releases store handles.
func (a *App) Shutdown(ctx context.Context) error {
	a.Maintenance.Stop()
	a.Queue.Stop()
	a.Events.Close()
	if err := a.Stores.Close(); err != nil {
		return fmt.Errorf("failed to close stores: %w", err)
	}
	a.Logger.Info().Msg("Application shut down")
	return nil
}
