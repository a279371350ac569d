package readers

import (
	"strings"
)

// Default chunking applied when a base carries no explicit settings.
const (
	DefaultChunkSize    = 1024
	DefaultChunkOverlap = 20
)

// Splitter is a fixed-size sliding-window text splitter. Overlap is clamped
// to [0, size-1] so the stride is always at least one rune.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter, normalizing out-of-range settings.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split slices trimmed text into overlapping rune windows, dropping chunks
// that trim to nothing.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	stride := s.chunkSize - s.overlap
	if stride < 1 {
		stride = 1
	}

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkSize returns the effective window size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the effective overlap after clamping.
func (s *Splitter) Overlap() int { return s.overlap }
