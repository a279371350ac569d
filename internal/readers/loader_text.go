package readers

import (
	"fmt"
	"os"
)

// loadTextFile reads a file as plain text and returns a single document.
func loadTextFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc := NewDocument(string(data))
	return []*Document{doc}, nil
}
