package readers

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"
)

// epub files are zip archives of XHTML chapters. Each chapter runs through
// the HTML parser and becomes its own document, in archive order.
func loadEpubFile(path string) ([]*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer archive.Close()

	var chapters []*zip.File
	for _, f := range archive.File {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".xhtml") || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
			chapters = append(chapters, f)
		}
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Name < chapters[j].Name })

	var docs []*Document
	for _, chapter := range chapters {
		rc, err := chapter.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		parsed, err := ParseHTML(content)
		if err != nil {
			continue
		}
		for _, doc := range parsed {
			doc.Metadata["chapter"] = chapter.Name
			docs = append(docs, doc)
		}
	}

	return docs, nil
}
