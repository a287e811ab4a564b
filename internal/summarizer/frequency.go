// Package summarizer builds the short extractive summary shown above the chat.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"paperqa/internal/tokenize"
)

const DefaultMaxSentences = 3

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// FrequencySummarizer ranks sentences by the normalized frequency of their
// content words and returns the best ones in document order.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns at most maxSentences sentences of text. Text without
// sentence punctuation is returned normalized.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	text = tokenize.Normalize(text)
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return text, nil
	}

	tokens := make([][]string, len(sentences))
	freq := map[string]float64{}
	for i, sent := range sentences {
		tokens[i] = contentWords(sent)
		for _, tok := range tokens[i] {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i := range sentences {
		sum := 0.0
		for _, tok := range tokens[i] {
			sum += freq[tok] / maxF
		}
		// length normalization keeps long sentences from always winning
		if n := len(tokens[i]); n > 0 {
			sum /= math.Sqrt(float64(n))
		}
		scores[i] = scored{i, sum}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func contentWords(s string) []string {
	words := tokenize.Words(s)
	out := words[:0]
	for _, w := range words {
		if !tokenize.IsStopword(w) {
			out = append(out, w)
		}
	}
	return out
}
