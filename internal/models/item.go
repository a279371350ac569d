package models

// ItemType enumerates the ingestible content kinds.
type ItemType string

const (
	ItemTypeFile      ItemType = "file"
	ItemTypeDirectory ItemType = "directory"
	ItemTypeURL       ItemType = "url"
	ItemTypeSitemap   ItemType = "sitemap"
	ItemTypeNote      ItemType = "note"
)

// FileData describes a file item.
type FileData struct {
	Path string `json:"path"`
	Ext  string `json:"ext,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// ItemData is the type-specific payload of a knowledge item. Only the fields
// matching the item's type are populated.
type ItemData struct {
	File      *FileData `json:"file,omitempty"`      // type == file
	Path      string    `json:"path,omitempty"`      // type == directory
	URL       string    `json:"url,omitempty"`       // type == url | sitemap
	Content   string    `json:"content,omitempty"`   // type == note
	SourceURL string    `json:"source_url,omitempty"` // optional note origin
}

// KnowledgeItem is the user-facing unit of ingestion. Items are immutable
// inputs; their status lives with the caller, not here.
type KnowledgeItem struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
	Data ItemData `json:"data"`
}
