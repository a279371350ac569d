// -----------------------------------------------------------------------
// Per-base vector store backed by BadgerHold
// -----------------------------------------------------------------------

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ErrStoreClosed is returned by operations invoked after Close.
var ErrStoreClosed = errors.New("vector store is closed")

// record is the persisted form of an embedded node. Seq preserves insertion
// order for deterministic tie-breaking.
type record struct {
	NodeID     string `badgerhold:"key"`
	Seq        uint64
	ExternalID string `badgerhold:"index"`
	Text       string
	Metadata   map[string]interface{}
	Embedding  []float32
}

// Store is the on-disk vector database for one knowledge base.
//
// Queries take the read lock; Add, deletes and ClearCollection take the write
// lock, so destructive operations wait for in-flight queries to drain.
type Store struct {
	mu     sync.RWMutex
	db     *badgerhold.Store
	dir    string
	dims   int
	seq    uint64
	logger arbor.ILogger
}

var _ interfaces.VectorStore = (*Store)(nil)

// Open opens (or creates) the base's database directory.
func Open(dir string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", dir, err)
	}

	s := &Store{db: db, dir: dir, logger: logger}
	if err := s.loadState(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("dir", dir).Int("dimensions", s.dims).Msg("Vector store opened")
	return s, nil
}

// loadState recovers pinned dimensions and the sequence counter from
// existing records.
func (s *Store) loadState() error {
	var recs []record
	if err := s.db.Find(&recs, nil); err != nil {
		return fmt.Errorf("failed to scan vector store: %w", err)
	}
	for _, r := range recs {
		if r.Seq >= s.seq {
			s.seq = r.Seq + 1
		}
		if s.dims == 0 && len(r.Embedding) > 0 {
			s.dims = len(r.Embedding)
		}
	}
	return nil
}

// Add inserts embedded nodes, pinning the base's dimensions on first insert.
// Each node is inserted atomically; a dimension mismatch fails the whole call
// before anything is written.
func (s *Store) Add(ctx context.Context, nodes []*models.Node) ([]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}

	dims := s.dims
	for _, node := range nodes {
		if len(node.Embedding) == 0 {
			return nil, fmt.Errorf("node %s has no embedding", node.ID)
		}
		if dims == 0 {
			dims = len(node.Embedding)
		} else if len(node.Embedding) != dims {
			return nil, fmt.Errorf("%w: expected %d, got %d", models.ErrDimensionMismatch, dims, len(node.Embedding))
		}
	}

	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		rec := &record{
			NodeID:     node.ID,
			Seq:        s.seq,
			ExternalID: node.ExternalID(),
			Text:       node.Text,
			Metadata:   node.Metadata,
			Embedding:  node.Embedding,
		}
		if err := s.db.Upsert(rec.NodeID, rec); err != nil {
			return ids, fmt.Errorf("failed to insert node %s: %w", node.ID, err)
		}
		s.seq++
		ids = append(ids, node.ID)
	}

	s.dims = dims
	return ids, nil
}

// DeleteByExternalID removes every node belonging to an item and returns the
// removed count.
func (s *Store) DeleteByExternalID(ctx context.Context, externalID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, ErrStoreClosed
	}

	var recs []record
	if err := s.db.Find(&recs, badgerhold.Where("ExternalID").Eq(externalID).Index("ExternalID")); err != nil {
		return 0, fmt.Errorf("failed to find nodes for %s: %w", externalID, err)
	}

	deleted := 0
	for _, rec := range recs {
		if err := s.db.Delete(rec.NodeID, &record{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return deleted, fmt.Errorf("failed to delete node %s: %w", rec.NodeID, err)
		}
		deleted++
	}
	return deleted, nil
}

// Delete removes a single node. Deleting a missing node is a no-op.
func (s *Store) Delete(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrStoreClosed
	}

	if err := s.db.Delete(nodeID, &record{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete node %s: %w", nodeID, err)
	}
	return nil
}

// ClearCollection removes all nodes. The dimension pin is released so the
// base can be re-ingested with a different embedding model.
func (s *Store) ClearCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrStoreClosed
	}

	if err := s.db.DeleteMatching(&record{}, nil); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	s.dims = 0
	s.seq = 0
	return nil
}

// Count returns the number of stored nodes.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0, ErrStoreClosed
	}

	n, err := s.db.Count(&record{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return int(n), nil
}

// RunGC runs one badger value-log GC pass. badger.ErrNoRewrite means there
// was nothing to reclaim and is not an error.
func (s *Store) RunGC(discardRatio float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Badger().RunValueLogGC(discardRatio)
	if err != nil && err != badger.ErrNoRewrite {
		return fmt.Errorf("value log GC failed: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (r *record) toNode() *models.Node {
	return &models.Node{
		ID:        r.NodeID,
		Text:      r.Text,
		Metadata:  r.Metadata,
		Embedding: r.Embedding,
	}
}
