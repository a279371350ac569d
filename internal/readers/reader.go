// -----------------------------------------------------------------------
// Content Readers - one reader per item type, producing chunked nodes
// with guaranteed external_id / source / type metadata.
// -----------------------------------------------------------------------

package readers

import (
	"strings"

	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// Registry maps item types to their readers.
type Registry struct {
	readers map[models.ItemType]interfaces.Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[models.ItemType]interfaces.Reader)}
}

// Register adds a reader keyed by its item type.
func (r *Registry) Register(reader interfaces.Reader) {
	r.readers[reader.Type()] = reader
}

// Resolve returns the reader for an item type.
func (r *Registry) Resolve(itemType models.ItemType) (interfaces.Reader, bool) {
	reader, ok := r.readers[itemType]
	return reader, ok
}

// splitterFor builds the splitter for a read context, falling back to the
// defaults when the context carries no chunk settings.
func splitterFor(rc *interfaces.ReadContext) *Splitter {
	size := rc.ChunkSize
	overlap := rc.ChunkOverlap
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	return NewSplitter(size, overlap)
}

// buildNodes chunks documents with the splitter and post-processes metadata
// so every node carries external_id, source and type.
func buildNodes(docs []*Document, splitter *Splitter, item *models.KnowledgeItem, defaultSource string) []*models.Node {
	var nodes []*models.Node
	for _, doc := range docs {
		source := defaultSource
		if s, ok := doc.Metadata[models.MetaSource].(string); ok && s != "" {
			source = s
		}

		var chunks []string
		if splitter != nil {
			chunks = splitter.Split(doc.Text)
		} else if trimmed := strings.TrimSpace(doc.Text); trimmed != "" {
			chunks = []string{trimmed}
		}

		for _, chunk := range chunks {
			node := &models.Node{
				ID:       common.NewNodeID(),
				Text:     chunk,
				Metadata: make(map[string]interface{}, len(doc.Metadata)+3),
			}
			for k, v := range doc.Metadata {
				node.Metadata[k] = v
			}
			node.Metadata[models.MetaExternalID] = item.ID
			node.Metadata[models.MetaSource] = source
			node.Metadata[models.MetaType] = string(item.Type)
			nodes = append(nodes, node)
		}
	}
	return nodes
}
