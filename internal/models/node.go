package models

// Metadata keys guaranteed on every node after reader post-processing.
const (
	MetaExternalID = "external_id" // equal to the item id
	MetaSource     = "source"      // file path, URL, or "note"
	MetaType       = "type"        // the item type
)

// Node is a text chunk plus metadata, optionally carrying an embedding.
type Node struct {
	ID        string                 `json:"id" badgerhold:"key"`
	Text      string                 `json:"text"`
	Metadata  map[string]interface{} `json:"metadata"`
	Embedding []float32              `json:"embedding,omitempty"`
}

// ExternalID returns the owning item id, or "" when metadata is incomplete.
func (n *Node) ExternalID() string {
	if n.Metadata == nil {
		return ""
	}
	if v, ok := n.Metadata[MetaExternalID].(string); ok {
		return v
	}
	return ""
}

// QueryMode selects the retrieval strategy.
type QueryMode string

const (
	QueryModeDefault QueryMode = "default" // cosine similarity over embeddings
	QueryModeBM25    QueryMode = "bm25"    // lexical BM25 over stored text
	QueryModeHybrid  QueryMode = "hybrid"  // alpha*vector + (1-alpha)*bm25, normalized
)

// VectorStoreQuery describes one retrieval request against a base.
type VectorStoreQuery struct {
	QueryEmbedding []float32
	QueryStr       string
	SimilarityTopK int
	Mode           QueryMode
	Alpha          *float64 // hybrid mix; nil = default
}

// QueryResult pairs nodes with their scores; Nodes[i] matches
// Similarities[i], ordered by descending score.
type QueryResult struct {
	Nodes        []*Node
	Similarities []float64
}
