package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperqa/internal/domain"
)

func texts(passages []domain.Passage) []string {
	out := make([]string, len(passages))
	for i, p := range passages {
		out[i] = p.Text
	}
	return out
}

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(words, " ")
}

func TestWordChunker_Empty(t *testing.T) {
	c := NewWordChunker(3, 1)
	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk(" \n\t  "))
}

func TestWordChunker_FitsInOnePassage(t *testing.T) {
	c := NewWordChunker(DefaultChunkSize, DefaultOverlap)
	passages := c.Chunk("  Hello,\n\n world   of\tpapers ")
	require.Len(t, passages, 1)
	assert.Equal(t, "Hello, world of papers", passages[0].Text)
	assert.Equal(t, 0, passages[0].Position)
}

func TestWordChunker_ExactlyChunkSize(t *testing.T) {
	c := NewWordChunker(5, 2)
	passages := c.Chunk(numberedWords(5))
	require.Len(t, passages, 1)
	assert.Equal(t, numberedWords(5), passages[0].Text)
}

func TestWordChunker_WordWindows(t *testing.T) {
	c := NewWordChunker(3, 1)
	passages := c.Chunk("A cat sat. A dog ran. A bird flew.")
	assert.Equal(t, []string{"A cat sat.", "sat. A dog", "dog ran. A", "A bird flew."}, texts(passages))
	for i, p := range passages {
		assert.Equal(t, i, p.Position)
	}
}

func TestWordChunker_Overlap(t *testing.T) {
	const size, overlap = 10, 3
	c := NewWordChunker(size, overlap)
	passages := c.Chunk(numberedWords(47))
	require.Greater(t, len(passages), 2)

	for i := 0; i+2 < len(passages); i++ {
		cur := strings.Fields(passages[i].Text)
		next := strings.Fields(passages[i+1].Text)
		require.Len(t, cur, size)
		assert.Equal(t, cur[size-overlap:], next[:overlap], "passages %d/%d", i, i+1)
	}
	last := strings.Fields(passages[len(passages)-1].Text)
	assert.Equal(t, "w46", last[len(last)-1])
	assert.LessOrEqual(t, len(last), size)
}

func TestWordChunker_OverlapNotSmallerThanSize(t *testing.T) {
	c := NewWordChunker(3, 5)
	passages := c.Chunk("a b c d e")
	// step falls back to one token
	assert.Equal(t, []string{"a b c", "b c d", "c d e"}, texts(passages))
}

func TestWordChunker_Deterministic(t *testing.T) {
	c := NewWordChunker(7, 2)
	text := numberedWords(100)
	assert.Equal(t, c.Chunk(text), c.Chunk(text))
}

func TestWordChunker_Defaults(t *testing.T) {
	c := NewWordChunker(0, -1)
	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, 0, c.overlap)
}

func TestSentenceChunker(t *testing.T) {
	c := NewSentenceChunker(2, 1)
	passages := c.Chunk("One. Two! Three? Four")
	assert.Equal(t, []string{"One. Two!", "Two! Three?", "Three? Four"}, texts(passages))
}

func TestSentenceChunker_NoPunctuation(t *testing.T) {
	c := NewSentenceChunker(5, 1)
	passages := c.Chunk("no punctuation here")
	require.Len(t, passages, 1)
	assert.Equal(t, "no punctuation here", passages[0].Text)
	assert.Empty(t, c.Chunk("   "))
}
