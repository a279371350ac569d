package readers

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// DirectoryReader walks a directory tree, loading each file with its
// extension's loader. Completion percent is published per finished file on
// the event service so callers can surface walk progress.
type DirectoryReader struct {
	events interfaces.EventService
	logger arbor.ILogger
}

// NewDirectoryReader creates the directory reader.
func NewDirectoryReader(events interfaces.EventService, logger arbor.ILogger) *DirectoryReader {
	return &DirectoryReader{events: events, logger: logger}
}

func (r *DirectoryReader) Type() models.ItemType { return models.ItemTypeDirectory }

// Read walks the directory and chunks every regular file. A non-existent
// directory yields an empty result. Files that fail to load are logged and
// skipped; the walk itself continues.
func (r *DirectoryReader) Read(ctx context.Context, rc *interfaces.ReadContext) ([]*models.Node, error) {
	root := rc.Item.Data.Path
	if root == "" {
		return nil, nil
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		r.logger.Debug().Str("path", root).Msg("Directory does not exist, skipping")
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.NewAbortError("cancelled while walking directory")
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	var nodes []*models.Node
	for i, path := range files {
		if ctx.Err() != nil {
			return nil, models.NewAbortError("cancelled while reading directory")
		}

		loader, split := loaderForExt(filepath.Ext(path))
		docs, err := loader(path)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("Failed to load file, skipping")
		} else {
			var splitter *Splitter
			if split {
				splitter = splitterFor(rc)
			}
			nodes = append(nodes, buildNodes(docs, splitter, rc.Item, path)...)
		}

		// Progress counts completed files, not bytes.
		percent := (i + 1) * 100 / len(files)
		r.publishPercent(ctx, rc.Item.ID, percent)
	}

	return nodes, nil
}

func (r *DirectoryReader) publishPercent(ctx context.Context, itemID string, percent int) {
	if r.events == nil {
		return
	}
	r.events.Publish(ctx, models.Event{
		Type: models.EventDirectoryPercent,
		Payload: map[string]interface{}{
			"item_id": itemID,
			"percent": percent,
		},
	})
}
