package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/noesis/internal/models"
)

// fakeEmbedder records batch sizes and returns a one-element vector derived
// from the text index.
type fakeEmbedder struct {
	batches []int
	calls   int
	failOn  int // 1-based call index to fail on; 0 = never
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failOn > 0 && f.calls >= f.failOn {
		return nil, f.err
	}
	f.batches = append(f.batches, len(texts))
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

func makeNodes(n int) []*models.Node {
	nodes := make([]*models.Node, n)
	for i := range nodes {
		nodes[i] = &models.Node{
			ID:   fmt.Sprintf("n%d", i),
			Text: fmt.Sprintf("%0*d", i+1, 0), // text length encodes the index
		}
	}
	return nodes
}

func TestEmbedNodesBatches(t *testing.T) {
	nodes := makeNodes(25)
	embedder := &fakeEmbedder{}

	var progress []int
	err := EmbedNodes(context.Background(), nodes, embedder, func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 10, 5}, embedder.batches)
	assert.Equal(t, []int{40, 80, 100}, progress)

	// Vectors land on the right nodes, in order.
	for i, node := range nodes {
		require.Len(t, node.Embedding, 1)
		assert.Equal(t, float32(i+1), node.Embedding[0])
	}
}

func TestEmbedNodesEmptyInput(t *testing.T) {
	embedder := &fakeEmbedder{}
	err := EmbedNodes(context.Background(), nil, embedder, nil)
	require.NoError(t, err)
	assert.Zero(t, embedder.calls)
}

func TestEmbedNodesWrapsProviderError(t *testing.T) {
	wantErr := errors.New("model offline")
	embedder := &fakeEmbedder{failOn: 2, err: wantErr}

	err := EmbedNodes(context.Background(), makeNodes(15), embedder, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, err.Error(), "embedding documents failed")
}

func TestEmbedNodesVectorCountMismatch(t *testing.T) {
	embedder := &shortEmbedder{}
	err := EmbedNodes(context.Background(), makeNodes(3), embedder, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding documents failed")
}

func TestEmbedNodesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := EmbedNodes(ctx, makeNodes(5), &fakeEmbedder{}, nil)
	require.Error(t, err)
	assert.True(t, models.IsAbort(err))
}

func TestEmbedNodesCancellationBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	embedder := &cancellingEmbedder{cancel: cancel}

	var progress []int
	err := EmbedNodes(ctx, makeNodes(25), embedder, func(p int) {
		progress = append(progress, p)
	})
	require.Error(t, err)
	assert.True(t, models.IsAbort(err))
	// Only the first batch completed.
	assert.Equal(t, []int{40}, progress)
}

// shortEmbedder returns one vector fewer than requested.
type shortEmbedder struct{}

func (s *shortEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (s *shortEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts)-1)
	for i := range vectors {
		vectors[i] = []float32{1}
	}
	return vectors, nil
}

// cancellingEmbedder cancels the context after the first call.
type cancellingEmbedder struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *cancellingEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	if c.calls == 1 {
		defer c.cancel()
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1}
	}
	return vectors, nil
}
