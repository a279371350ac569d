package interfaces

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// VectorStore is the per-base handle over the persistent vector database.
//
// Mutations are serialized by the store; queries may run concurrently with
// each other but not with ClearCollection or base deletion.
type VectorStore interface {
	// Add inserts embedded nodes and returns their node ids. Nodes whose
	// embedding length differs from the base's pinned dimensions are
	// rejected with models.ErrDimensionMismatch.
	Add(ctx context.Context, nodes []*models.Node) ([]string, error)

	// DeleteByExternalID removes every node belonging to the item and
	// returns the removed count.
	DeleteByExternalID(ctx context.Context, externalID string) (int, error)

	// Delete removes a single node by id.
	Delete(ctx context.Context, nodeID string) error

	// ClearCollection removes all nodes but keeps the base usable.
	ClearCollection(ctx context.Context) error

	// Query runs one retrieval request (vector, bm25 or hybrid).
	Query(ctx context.Context, q *models.VectorStoreQuery) (*models.QueryResult, error)

	// Count returns the number of stored nodes.
	Count() (int, error)

	// Close releases the underlying database handle.
	Close() error
}

// VectorStoreManager owns the singleton store handles keyed by base id.
type VectorStoreManager interface {
	// GetStore returns the store for a base, creating it lazily.
	GetStore(baseID string) (VectorStore, error)

	// Reset clears the base's collection in place.
	Reset(ctx context.Context, baseID string) error

	// DeleteBase closes the handle, drops the cache entry, and removes the
	// base directory recursively. Refusal by the underlying database to
	// release is logged, not fatal.
	DeleteBase(ctx context.Context, baseID string) error

	// Close closes every open store handle.
	Close() error
}
