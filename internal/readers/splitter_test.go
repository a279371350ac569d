package readers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(100, 10)
	chunks := s.Split("short text")
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitterEmptyText(t *testing.T) {
	s := NewSplitter(100, 10)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitterStride(t *testing.T) {
	s := NewSplitter(10, 4)
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Windows advance by size-overlap = 6 runes.
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ghijklmnop", chunks[1])
	assert.Equal(t, "mnopqrstuv", chunks[2])
	assert.Equal(t, "stuvwxyz", chunks[3])
	assert.Len(t, chunks, 4)
}

func TestSplitterCoversAllContent(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("0123456789", 30)

	chunks := s.Split(text)
	joined := strings.Join(chunks, "")
	// Every rune of the input appears in at least one chunk.
	assert.GreaterOrEqual(t, len(joined), len(text))
	assert.Equal(t, text[:50], chunks[0])
}

func TestSplitterClampsOverlap(t *testing.T) {
	// Overlap >= size would stall the window; it is clamped to size-1.
	s := NewSplitter(5, 10)
	assert.Equal(t, 5, s.ChunkSize())
	assert.Equal(t, 4, s.Overlap())

	chunks := s.Split("abcdefghij")
	assert.NotEmpty(t, chunks)
	assert.Equal(t, "abcde", chunks[0])
	assert.Equal(t, "bcdef", chunks[1])
}

func TestSplitterNormalizesSettings(t *testing.T) {
	s := NewSplitter(0, -5)
	assert.Equal(t, DefaultChunkSize, s.ChunkSize())
	assert.Equal(t, 0, s.Overlap())
}

func TestSplitterHandlesMultibyteRunes(t *testing.T) {
	s := NewSplitter(4, 1)
	chunks := s.Split("日本語のテキストです")
	require.NotEmpty(t, chunks)
	// Windows are rune-aligned, never mid-codepoint.
	assert.Equal(t, "日本語の", chunks[0])
	for _, c := range chunks {
		assert.True(t, len([]rune(c)) <= 4)
	}
}

func TestSplitterDropsWhitespaceOnlyChunks(t *testing.T) {
	s := NewSplitter(4, 0)
	chunks := s.Split("ab      cd")
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}
