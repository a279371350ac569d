package interfaces

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// ReadContext carries everything a reader needs for one item.
type ReadContext struct {
	Item         *models.KnowledgeItem
	ChunkSize    int
	ChunkOverlap int
}

// Reader produces ordered chunked nodes for one item type.
//
// Readers return an empty node list (not an error) when the input is absent
// or empty: a missing file, a non-existent directory, blank note content.
// Malformed or unreachable inputs (failed fetch, unreadable file) are errors.
type Reader interface {
	// Type returns the item type this reader handles.
	Type() models.ItemType

	// Read produces the nodes for the item. Every returned node carries
	// external_id, source and type metadata.
	Read(ctx context.Context, rc *ReadContext) ([]*models.Node, error)
}
