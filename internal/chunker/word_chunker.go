package chunker

import (
	"strings"

	"paperqa/internal/domain"
	"paperqa/internal/tokenize"
)

const (
	DefaultChunkSize = 220
	DefaultOverlap   = 40
)

// WordChunker splits text into overlapping windows of whitespace-delimited tokens.
type WordChunker struct {
	chunkSize int
	overlap   int
}

func NewWordChunker(chunkSize, overlap int) *WordChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk is a pure function of text and the chunker configuration.
func (c *WordChunker) Chunk(text string) []domain.Passage {
	words := tokenize.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= c.chunkSize {
		return []domain.Passage{{Position: 0, Text: strings.Join(words, " ")}}
	}
	step := c.chunkSize - c.overlap
	if step < 1 {
		step = 1
	}
	var passages []domain.Passage
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		passages = append(passages, domain.Passage{
			Position: len(passages),
			Text:     strings.Join(words[start:end], " "),
		})
		if end >= len(words) {
			break
		}
	}
	return passages
}
