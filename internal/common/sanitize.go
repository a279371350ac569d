package common

import (
	"strings"
)

// SanitizeBaseID converts a knowledge base id into a filesystem-safe
// directory name. Anything outside [A-Za-z0-9._-] becomes an underscore, and
// the result is capped so deep ids cannot exceed filename limits.
func SanitizeBaseID(id string) string {
	var b strings.Builder
	b.Grow(len(id))

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	s := b.String()
	if s == "" {
		s = "base"
	}
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}
