package chunker

import (
	"regexp"
	"strings"

	"paperqa/internal/domain"
	"paperqa/internal/tokenize"
)

// SentenceChunker splits text into sentence-based passages with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// overlap must leave room to advance
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`),
	}
}

func (c *SentenceChunker) Chunk(text string) []domain.Passage {
	normalized := tokenize.Normalize(text)
	if normalized == "" {
		return nil
	}
	var sentences []string
	for _, s := range c.splitter.FindAllString(normalized, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		sentences = []string{normalized}
	}
	var passages []domain.Passage
	i := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		passages = append(passages, domain.Passage{
			Position: len(passages),
			Text:     strings.Join(sentences[i:end], " "),
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return passages
}
