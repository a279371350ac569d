package readers

import (
	"context"
	"strings"

	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// NoteReader chunks free-form note content.
type NoteReader struct{}

// NewNoteReader creates the note reader.
func NewNoteReader() *NoteReader { return &NoteReader{} }

func (r *NoteReader) Type() models.ItemType { return models.ItemTypeNote }

// Read splits the note text. Empty content yields an empty result; the
// source is the note's origin URL when present, "note" otherwise.
func (r *NoteReader) Read(ctx context.Context, rc *interfaces.ReadContext) ([]*models.Node, error) {
	content := strings.TrimSpace(rc.Item.Data.Content)
	if content == "" {
		return nil, nil
	}

	source := rc.Item.Data.SourceURL
	if source == "" {
		source = "note"
	}

	docs := []*Document{NewDocument(content)}
	return buildNodes(docs, splitterFor(rc), rc.Item, source), nil
}
