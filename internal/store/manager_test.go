package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/models"
)

func newTestManagerStore(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m := NewManager(root, arbor.NewLogger())
	t.Cleanup(func() { m.Close() })
	return m, root
}

func TestManagerGetStoreIsSingleton(t *testing.T) {
	m, root := newTestManagerStore(t)

	s1, err := m.GetStore("kb-1")
	require.NoError(t, err)
	s2, err := m.GetStore("kb-1")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	// The database directory is named after the sanitized base id.
	_, err = os.Stat(filepath.Join(root, common.SanitizeBaseID("kb-1")))
	assert.NoError(t, err)
}

func TestManagerGetStoreRequiresBaseID(t *testing.T) {
	m, _ := newTestManagerStore(t)
	_, err := m.GetStore("")
	assert.Error(t, err)
}

func TestManagerBasesAreIsolated(t *testing.T) {
	m, _ := newTestManagerStore(t)
	ctx := context.Background()

	s1, err := m.GetStore("kb-1")
	require.NoError(t, err)
	s2, err := m.GetStore("kb-2")
	require.NoError(t, err)

	_, err = s1.Add(ctx, []*models.Node{node("n1", "item-1", "alpha", []float32{1, 0})})
	require.NoError(t, err)

	// Different dimensions per base are fine; the pin is per store.
	_, err = s2.Add(ctx, []*models.Node{node("n1", "item-2", "beta", []float32{1, 0, 0})})
	require.NoError(t, err)

	result, err := s2.Query(ctx, &models.VectorStoreQuery{QueryEmbedding: []float32{1, 0, 0}})
	require.NoError(t, err)
	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "item-2", result.Nodes[0].ExternalID())
}

func TestManagerReset(t *testing.T) {
	m, _ := newTestManagerStore(t)
	ctx := context.Background()

	s, err := m.getStore("kb-1")
	require.NoError(t, err)
	_, err = s.Add(ctx, []*models.Node{node("n1", "item-1", "alpha", []float32{1, 0})})
	require.NoError(t, err)

	require.NoError(t, m.Reset(ctx, "kb-1"))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestManagerDeleteBase(t *testing.T) {
	m, root := newTestManagerStore(t)
	ctx := context.Background()

	s, err := m.getStore("kb-1")
	require.NoError(t, err)
	_, err = s.Add(ctx, []*models.Node{node("n1", "item-1", "alpha", []float32{1, 0})})
	require.NoError(t, err)

	dir := filepath.Join(root, common.SanitizeBaseID("kb-1"))
	require.NoError(t, m.DeleteBase(ctx, "kb-1"))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	// A subsequent GetStore opens a fresh, empty database.
	fresh, err := m.GetStore("kb-1")
	require.NoError(t, err)
	result, err := fresh.Query(ctx, &models.VectorStoreQuery{QueryEmbedding: []float32{1, 0}})
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
}

func TestManagerDeleteUnknownBase(t *testing.T) {
	m, _ := newTestManagerStore(t)
	assert.NoError(t, m.DeleteBase(context.Background(), "never-opened"))
}
