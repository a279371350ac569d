package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// DefaultBatchSize is the number of chunks sent per embedding request.
const DefaultBatchSize = 10

// EmbedNodes fills in node embeddings in place, batching requests and
// reporting percent progress after each batch. Node order is preserved.
// Cancellation is checked between batches, never mid-request.
func EmbedNodes(ctx context.Context, nodes []*models.Node, embedder interfaces.Embedder, onProgress func(percent int)) error {
	total := len(nodes)
	if total == 0 {
		return nil
	}

	for start := 0; start < total; start += DefaultBatchSize {
		if ctx.Err() != nil {
			return models.NewAbortError("cancelled while embedding")
		}

		end := start + DefaultBatchSize
		if end > total {
			end = total
		}
		batch := nodes[start:end]

		texts := make([]string, len(batch))
		for i, node := range batch {
			texts[i] = node.Text
		}

		vectors, err := embedder.EmbedMany(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return models.NewAbortError("cancelled while embedding")
			}
			return fmt.Errorf("embedding documents failed: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding documents failed: got %d vectors for %d texts", len(vectors), len(batch))
		}

		for i, vec := range vectors {
			batch[i].Embedding = vec
		}

		if onProgress != nil {
			percent := int(math.Round(float64(end) / float64(total) * 100))
			onProgress(percent)
		}
	}

	return nil
}
