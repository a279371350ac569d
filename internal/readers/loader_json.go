package readers

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// loadJSONFile flattens a JSON file into one document of "path: value"
// lines so nested fields stay searchable after chunking.
func loadJSONFile(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	lines := make(map[string]string)
	flattenJSON("", value, lines)

	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if k == "" {
			b.WriteString(lines[k])
		} else {
			b.WriteString(k + ": " + lines[k])
		}
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, nil
	}
	return []*Document{NewDocument(text)}, nil
}

func flattenJSON(prefix string, value interface{}, out map[string]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenJSON(key, child, out)
		}
	case []interface{}:
		for i, child := range v {
			flattenJSON(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	case nil:
		// Nulls add nothing searchable.
	default:
		out[prefix] = fmt.Sprintf("%v", v)
	}
}
