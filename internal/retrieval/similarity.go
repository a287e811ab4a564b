package retrieval

import (
	"math"

	"paperqa/internal/tokenize"
)

// CosineSimilarity returns a·b / (‖a‖·‖b‖) in [-1, 1].
// Vectors of different length are compared on their common prefix.
// An empty or zero-norm vector on either side scores -1.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return -1
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

// LexicalScore is the share of distinct question words that occur in the passage.
func LexicalScore(question map[string]struct{}, passage string) float64 {
	if len(question) == 0 {
		return 0
	}
	words := tokenize.Set(passage)
	if len(words) == 0 {
		return 0
	}
	shared := 0
	for w := range question {
		if _, ok := words[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(question))
}
