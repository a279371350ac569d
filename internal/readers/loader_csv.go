package readers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// loadCSVFile flattens a CSV file into one document: the header names each
// cell so rows keep their meaning once chunked.
func loadCSVFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var b strings.Builder
	for _, row := range records[1:] {
		cells := make([]string, 0, len(row))
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if i < len(header) && strings.TrimSpace(header[i]) != "" {
				cells = append(cells, strings.TrimSpace(header[i])+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			b.WriteString(strings.Join(cells, ", "))
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		// Header-only files still carry the column names.
		text = strings.Join(header, ", ")
	}

	doc := NewDocument(text)
	doc.Metadata["rows"] = len(records) - 1
	return []*Document{doc}, nil
}
