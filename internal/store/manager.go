package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
)

// Manager owns the singleton store handles, one per base. Each base's
// database lives in a directory named after the sanitized base id.
type Manager struct {
	mu     sync.Mutex
	root   string
	stores map[string]*Store
	logger arbor.ILogger
}

var _ interfaces.VectorStoreManager = (*Manager)(nil)

// NewManager creates the store manager rooted at dir.
func NewManager(root string, logger arbor.ILogger) *Manager {
	return &Manager{
		root:   root,
		stores: make(map[string]*Store),
		logger: logger,
	}
}

// GetStore returns the store for a base, opening it lazily on first use.
func (m *Manager) GetStore(baseID string) (interfaces.VectorStore, error) {
	s, err := m.getStore(baseID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) getStore(baseID string) (*Store, error) {
	if baseID == "" {
		return nil, fmt.Errorf("base id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[baseID]; ok {
		return s, nil
	}

	dir := filepath.Join(m.root, common.SanitizeBaseID(baseID))
	s, err := Open(dir, m.logger)
	if err != nil {
		return nil, err
	}
	m.stores[baseID] = s
	return s, nil
}

// Reset clears the base's collection in place, keeping the handle open.
func (m *Manager) Reset(ctx context.Context, baseID string) error {
	s, err := m.getStore(baseID)
	if err != nil {
		return err
	}
	return s.ClearCollection(ctx)
}

// DeleteBase closes the base's handle, drops the cache entry and removes its
// directory. Waiting for the store's write lock lets in-flight queries drain
// first; a database that refuses to release is logged, not fatal.
func (m *Manager) DeleteBase(ctx context.Context, baseID string) error {
	m.mu.Lock()
	s, ok := m.stores[baseID]
	delete(m.stores, baseID)
	m.mu.Unlock()

	dir := filepath.Join(m.root, common.SanitizeBaseID(baseID))

	if ok {
		if err := s.Close(); err != nil {
			m.logger.Warn().Err(err).Str("base_id", baseID).Msg("Vector store refused release, continuing with delete")
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove base directory %s: %w", dir, err)
	}

	m.logger.Debug().Str("base_id", baseID).Str("dir", dir).Msg("Knowledge base deleted")
	return nil
}

// RunGC runs a value-log GC pass over every open store.
func (m *Manager) RunGC(discardRatio float64) {
	m.mu.Lock()
	stores := make(map[string]*Store, len(m.stores))
	for baseID, s := range m.stores {
		stores[baseID] = s
	}
	m.mu.Unlock()

	for baseID, s := range stores {
		if err := s.RunGC(discardRatio); err != nil {
			m.logger.Warn().Err(err).Str("base_id", baseID).Msg("Vector store GC failed")
		}
	}
}

// Close closes every open store handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for baseID, s := range m.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close store for %s: %w", baseID, err)
		}
		delete(m.stores, baseID)
	}
	return firstErr
}
