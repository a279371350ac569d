package readers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// fileLoader loads one file into pre-chunk documents.
type fileLoader func(path string) ([]*Document, error)

// structuredExtensions use a format-aware loader followed by the fixed-size
// splitter. Markdown is handled separately: its heading segments bypass the
// splitter entirely.
var structuredExtensions = map[string]fileLoader{
	".pdf":  loadPDFFile,
	".csv":  loadCSVFile,
	".docx": loadDocxFile,
	".html": loadHTMLFile,
	".htm":  loadHTMLFile,
	".json": loadJSONFile,
	".epub": loadEpubFile,
}

// loaderForExt picks the loader for a file extension and reports whether
// the splitter applies.
func loaderForExt(ext string) (fileLoader, bool) {
	ext = strings.ToLower(ext)
	if ext == ".md" {
		return loadMarkdownFile, false
	}
	if loader, ok := structuredExtensions[ext]; ok {
		return loader, true
	}
	return loadTextFile, true
}

// FileReader loads a single file, dispatching on extension.
type FileReader struct {
	logger arbor.ILogger
}

// NewFileReader creates the file reader.
func NewFileReader(logger arbor.ILogger) *FileReader {
	return &FileReader{logger: logger}
}

func (r *FileReader) Type() models.ItemType { return models.ItemTypeFile }

// Read loads and chunks the item's file. A file missing on disk yields an
// empty result, not an error.
func (r *FileReader) Read(ctx context.Context, rc *interfaces.ReadContext) ([]*models.Node, error) {
	file := rc.Item.Data.File
	if file == nil || file.Path == "" {
		return nil, nil
	}

	if _, err := os.Stat(file.Path); os.IsNotExist(err) {
		r.logger.Debug().Str("path", file.Path).Msg("File does not exist, skipping")
		return nil, nil
	}

	ext := file.Ext
	if ext == "" {
		ext = filepath.Ext(file.Path)
	}

	loader, split := loaderForExt(ext)
	docs, err := loader(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file.Path, err)
	}

	var splitter *Splitter
	if split {
		splitter = splitterFor(rc)
	}
	return buildNodes(docs, splitter, rc.Item, file.Path), nil
}
