package readers

// Document is an intermediate unit produced by a loader before chunking.
type Document struct {
	Text     string
	Metadata map[string]interface{}
}

// NewDocument creates a document with an initialized metadata map.
func NewDocument(text string) *Document {
	return &Document{
		Text:     text,
		Metadata: make(map[string]interface{}),
	}
}
