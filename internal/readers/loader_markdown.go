package readers

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// loadMarkdownFile parses markdown and segments it by heading: each heading
// plus the content under it becomes one document. The fixed-size splitter is
// bypassed for markdown; segments map to nodes directly.
func loadMarkdownFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return SegmentMarkdown(data), nil
}

// SegmentMarkdown splits markdown source into heading-delimited documents.
// Content before the first heading forms its own segment.
func SegmentMarkdown(source []byte) []*Document {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	reader := text.NewReader(source)
	root := md.Parser().Parse(reader)

	type segment struct {
		heading string
		level   int
		body    strings.Builder
	}

	var segments []*segment
	current := &segment{}
	segments = append(segments, current)

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if h, ok := child.(*ast.Heading); ok {
			current = &segment{
				heading: string(nodeText(h, source)),
				level:   h.Level,
			}
			segments = append(segments, current)
			continue
		}
		current.body.WriteString(string(blockText(child, source)))
		current.body.WriteString("\n")
	}

	var docs []*Document
	for _, seg := range segments {
		body := strings.TrimSpace(seg.body.String())
		textContent := body
		if seg.heading != "" {
			if textContent != "" {
				textContent = seg.heading + "\n\n" + textContent
			} else {
				textContent = seg.heading
			}
		}
		if textContent == "" {
			continue
		}
		doc := NewDocument(textContent)
		if seg.heading != "" {
			doc.Metadata["heading"] = seg.heading
			doc.Metadata["heading_level"] = seg.level
		}
		docs = append(docs, doc)
	}
	return docs
}

// nodeText collects the raw text under an inline container.
func nodeText(n ast.Node, source []byte) []byte {
	var out []byte
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		} else {
			out = append(out, nodeText(child, source)...)
		}
	}
	return out
}

// blockText extracts the text of a block node, descending into containers.
func blockText(n ast.Node, source []byte) []byte {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		var out []byte
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out = append(out, seg.Value(source)...)
		}
		return out
	}

	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		var out []byte
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out = append(out, seg.Value(source)...)
		}
		return out
	}

	var out []byte
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() == ast.TypeInline {
			out = append(out, nodeText(n, source)...)
			break
		}
		chunk := blockText(child, source)
		out = append(out, chunk...)
		out = append(out, '\n')
	}
	return out
}
