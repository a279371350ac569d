package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/services/search"
)

// formatSearchResults renders hits as markdown for the MCP client.
func formatSearchResults(query string, hits []search.Hit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No results for %q", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", query)
	for i, hit := range hits {
		source := ""
		if s, ok := hit.Node.Metadata[models.MetaSource].(string); ok {
			source = s
		}
		fmt.Fprintf(&b, "## %d. %s (score %.4f)\n\n", i+1, source, hit.Score)
		b.WriteString(strings.TrimSpace(hit.Node.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}
