package readers

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

func directoryItem(id, path string) *models.KnowledgeItem {
	return &models.KnowledgeItem{
		ID:   id,
		Type: models.ItemTypeDirectory,
		Data: models.ItemData{Path: path},
	}
}

// captureEvents collects published events for assertions.
type captureEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *captureEvents) Subscribe(models.EventType, interfaces.EventHandler) error { return nil }

func (c *captureEvents) Publish(ctx context.Context, event models.Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
}

func (c *captureEvents) PublishSync(ctx context.Context, event models.Event) error {
	c.Publish(ctx, event)
	return nil
}

func (c *captureEvents) Close() error { return nil }

func (c *captureEvents) snapshot() []models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Event(nil), c.events...)
}

func TestDirectoryReaderWalksTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha content"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("beta content"), 0644))

	events := &captureEvents{}
	reader := NewDirectoryReader(events, arbor.NewLogger())

	nodes, err := reader.Read(context.Background(), &interfaces.ReadContext{Item: directoryItem("item-1", dir)})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	texts := []string{nodes[0].Text, nodes[1].Text}
	assert.Contains(t, texts, "alpha content")
	assert.Contains(t, texts, "beta content")
	for _, n := range nodes {
		assert.Equal(t, "item-1", n.Metadata[models.MetaExternalID])
		assert.Equal(t, "directory", n.Metadata[models.MetaType])
	}

	// One percent event per file, ending at 100.
	published := events.snapshot()
	require.Len(t, published, 2)
	assert.Equal(t, models.EventDirectoryPercent, published[0].Type)
	assert.Equal(t, 50, published[0].Payload["percent"])
	assert.Equal(t, 100, published[1].Payload["percent"])
}

func TestDirectoryReaderMissingDirectory(t *testing.T) {
	reader := NewDirectoryReader(nil, arbor.NewLogger())

	nodes, err := reader.Read(context.Background(), &interfaces.ReadContext{
		Item: directoryItem("item-1", filepath.Join(t.TempDir(), "missing")),
	})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDirectoryReaderEmptyDirectory(t *testing.T) {
	reader := NewDirectoryReader(nil, arbor.NewLogger())

	nodes, err := reader.Read(context.Background(), &interfaces.ReadContext{
		Item: directoryItem("item-1", t.TempDir()),
	})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDirectoryReaderCancellation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("content"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewDirectoryReader(nil, arbor.NewLogger())
	_, err := reader.Read(ctx, &interfaces.ReadContext{Item: directoryItem("item-1", dir)})
	require.Error(t, err)
	assert.True(t, models.IsAbort(err))
}
