// -----------------------------------------------------------------------
// Knowledge Processor - reader -> embedding -> store pipeline
// -----------------------------------------------------------------------

package knowledge

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/pipeline"
	"github.com/ternarybob/noesis/internal/providers"
	"github.com/ternarybob/noesis/internal/providers/embedding"
	"github.com/ternarybob/noesis/internal/readers"
)

// StageRunner routes a stage body through the scheduler's shared pools.
type StageRunner func(ctx context.Context, stage string, body func() error) error

// ProcessRequest carries everything one ingestion run needs.
type ProcessRequest struct {
	Base *models.KnowledgeBase
	Item *models.KnowledgeItem

	RunStage      StageRunner
	OnStageChange func(stage string)
	OnProgress    func(percent int)
}

// Processor turns one knowledge item into embedded nodes in the item's base.
type Processor struct {
	readers  *readers.Registry
	adapter  *providers.Adapter
	embedReg *embedding.Registry
	stores   interfaces.VectorStoreManager
	logger   arbor.ILogger
}

// NewProcessor creates the processor.
func NewProcessor(readerReg *readers.Registry, adapter *providers.Adapter, embedReg *embedding.Registry, stores interfaces.VectorStoreManager, logger arbor.ILogger) *Processor {
	return &Processor{
		readers:  readerReg,
		adapter:  adapter,
		embedReg: embedReg,
		stores:   stores,
		logger:   logger,
	}
}

// Process runs the full pipeline: ocr (reserved), read, then embed + store.
// Empty reader output ends the run successfully without touching the store.
func (p *Processor) Process(ctx context.Context, req *ProcessRequest) error {
	reader, ok := p.readers.Resolve(req.Item.Type)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnsupportedItemType, req.Item.Type)
	}

	resolved, err := p.adapter.ResolveBase(req.Base, false)
	if err != nil {
		return err
	}

	embedder, err := p.embedReg.CreateEmbedder(resolved.EmbedClient, resolved.Dimensions)
	if err != nil {
		return err
	}

	// Reserved preprocessing slot; runs empty so pool accounting and status
	// reporting stay uniform once OCR lands.
	p.announce(req, models.StageOCR)
	if err := req.RunStage(ctx, models.StageOCR, func() error { return nil }); err != nil {
		return err
	}

	p.announce(req, models.StageRead)
	var nodes []*models.Node
	err = req.RunStage(ctx, models.StageRead, func() error {
		var readErr error
		nodes, readErr = reader.Read(ctx, &interfaces.ReadContext{
			Item:         req.Item,
			ChunkSize:    resolved.ChunkSize,
			ChunkOverlap: resolved.ChunkOverlap,
		})
		return readErr
	})
	if err != nil {
		return err
	}

	if len(nodes) == 0 {
		p.logger.Debug().
			Str("item_id", req.Item.ID).
			Str("type", string(req.Item.Type)).
			Msg("Reader produced no nodes, nothing to ingest")
		return nil
	}

	store, err := p.stores.GetStore(req.Base.ID)
	if err != nil {
		return err
	}

	p.announce(req, models.StageEmbed)
	err = req.RunStage(ctx, models.StageEmbed, func() error {
		return pipeline.EmbedNodes(ctx, nodes, embedder, req.OnProgress)
	})
	if err != nil {
		return err
	}

	return req.RunStage(ctx, models.StageWrite, func() error {
		// Re-ingesting an item replaces its previous nodes.
		if _, err := store.DeleteByExternalID(ctx, req.Item.ID); err != nil {
			return fmt.Errorf("failed to remove prior nodes: %w", err)
		}
		if _, err := store.Add(ctx, nodes); err != nil {
			return fmt.Errorf("failed to store nodes: %w", err)
		}
		p.logger.Debug().
			Str("base_id", req.Base.ID).
			Str("item_id", req.Item.ID).
			Int("nodes", len(nodes)).
			Msg("Item ingested")
		return nil
	})
}

func (p *Processor) announce(req *ProcessRequest, stage string) {
	if req.OnStageChange != nil {
		req.OnStageChange(stage)
	}
}
