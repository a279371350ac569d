package readers

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfTextPattern matches text-showing operators in extracted content
// streams; pdfcpu exposes raw content, not decoded text runs.
var pdfTextPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)

// loadPDFFile extracts text content from a PDF, one document per page.
func loadPDFFile(path string) ([]*Document, error) {
	conf := model.NewDefaultConfiguration()

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp("", "noesis-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract pdf content: %w", err)
	}

	var docs []*Document
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		content, err := os.ReadFile(filepath.Join(outDir, fmt.Sprintf("%s_Content_page_%d.txt", baseName(path), pageNum)))
		if err != nil {
			// Some pages carry no content stream file; skip them.
			continue
		}

		text := decodePDFContent(string(content))
		if strings.TrimSpace(text) == "" {
			continue
		}

		doc := NewDocument(text)
		doc.Metadata["page"] = pageNum
		docs = append(docs, doc)
	}

	return docs, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// decodePDFContent pulls the literal strings out of Tj operators and undoes
// the common escape sequences.
func decodePDFContent(content string) string {
	matches := pdfTextPattern.FindAllStringSubmatch(content, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		s := m[1]
		s = strings.ReplaceAll(s, `\(`, "(")
		s = strings.ReplaceAll(s, `\)`, ")")
		s = strings.ReplaceAll(s, `\\`, `\`)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
