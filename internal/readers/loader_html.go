package readers

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ParseHTML converts an HTML payload into one document: goquery extracts the
// title and strips script/style/nav chrome, html-to-markdown flattens the
// rest into chunkable text.
func ParseHTML(content []byte) ([]*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, iframe, nav, footer").Remove()

	body := doc.Find("body")
	var html string
	if body.Length() > 0 {
		html, err = body.Html()
	} else {
		html, err = doc.Html()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize html: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to convert html to markdown: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		// Conversion can come up empty on heavily scripted pages; fall
		// back to the stripped DOM text.
		markdown = strings.TrimSpace(doc.Text())
	}
	if markdown == "" {
		return nil, nil
	}

	out := NewDocument(markdown)
	if title != "" {
		out.Metadata["title"] = title
	}
	return []*Document{out}, nil
}

// loadHTMLFile parses an HTML file from disk.
func loadHTMLFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseHTML(data)
}
