package tfidf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"paperqa/internal/domain"
	"paperqa/internal/tokenize"
)

// Embedder implements a simple TF-IDF vectorizer.
// It builds a vocabulary from the passages and computes IDF values.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocabulary: make(map[string]int),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector. Documents and queries share one space.
func (e *Embedder) Embed(_ context.Context, text string, _ domain.Role) ([]float32, error) {
	if !e.prepared {
		return nil, fmt.Errorf("%w: tfidf embedder not prepared", domain.ErrEmbeddingUnavailable)
	}
	vec := make([]float32, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	weights := make([]float64, e.dimension)
	norm := 0.0
	for idx, count := range tf {
		w := float64(count) / float64(total) * e.idf[idx]
		weights[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i, w := range weights {
		if w != 0 {
			vec[i] = float32(w / norm)
		}
	}
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := tokenize.Words(text)
	out := raw[:0]
	for _, t := range raw {
		if tokenize.IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
