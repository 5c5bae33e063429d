package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", DefaultChunkSize, DefaultChunkOverlap)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := SplitText(text, 100, 20)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "chunk %d exceeds size", i)
	}

	// Consecutive chunks share the overlap region.
	step := 100 - 20
	assert.Equal(t, text[step:step+100], chunks[1])
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("abcde ", 400)
	chunks := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)

	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 300)
	chunks := SplitText(text, 100, 10)

	for i, chunk := range chunks {
		assert.NotContains(t, chunk, "�", "chunk %d split a multi-byte rune", i)
	}
}

func TestSplitTextBadOverlapFallsBack(t *testing.T) {
	text := strings.Repeat("y", 300)
	// Overlap >= chunk size would never advance; the splitter degrades to
	// disjoint chunks instead of looping.
	chunks := SplitText(text, 100, 100)
	assert.Len(t, chunks, 3)
}
