package domain

import "fmt"

// Passage is an immutable span of the document. Position is its index in the
// chunker output and the only identity used for citation and tie-breaking.
type Passage struct {
	Position int
	Text     string
}

// RetrievalMode tells whether an Index ranks by vector similarity or by word overlap.
type RetrievalMode string

const (
	ModeSemantic RetrievalMode = "semantic"
	ModeLexical  RetrievalMode = "lexical"
)

// Index is built once per document and never mutated afterwards.
// In semantic mode Vectors holds one vector per passage, all of one dimension.
// In lexical mode Vectors is empty.
type Index struct {
	ID       string
	Passages []Passage
	Vectors  [][]float32
	Mode     RetrievalMode
}

// Empty reports whether the index has no passages.
func (idx Index) Empty() bool { return len(idx.Passages) == 0 }

// Dimension returns the vector dimensionality, or 0 in lexical mode.
func (idx Index) Dimension() int {
	if len(idx.Vectors) == 0 {
		return 0
	}
	return len(idx.Vectors[0])
}

// Validate checks the semantic-mode invariants.
func (idx Index) Validate() error {
	switch idx.Mode {
	case ModeLexical:
		if len(idx.Vectors) != 0 {
			return fmt.Errorf("%w: lexical index carries %d vectors", ErrMalformedIndex, len(idx.Vectors))
		}
		return nil
	case ModeSemantic:
		if len(idx.Vectors) != len(idx.Passages) {
			return fmt.Errorf("%w: %d vectors for %d passages", ErrMalformedIndex, len(idx.Vectors), len(idx.Passages))
		}
		dim := idx.Dimension()
		if dim == 0 {
			return fmt.Errorf("%w: zero-length vectors", ErrMalformedIndex)
		}
		for i, v := range idx.Vectors {
			if len(v) != dim {
				return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrMalformedIndex, i, len(v), dim)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrMalformedIndex, idx.Mode)
	}
}

// RankedPassage pairs a passage with a score. Scores are only comparable
// within one retrieval call.
type RankedPassage struct {
	Passage Passage
	Score   float64
}

// RetrievalResult is ordered by descending score, ties by ascending position.
// Mode records which path produced it.
type RetrievalResult struct {
	Mode     RetrievalMode
	Passages []RankedPassage
}

// Empty reports whether nothing relevant was found.
func (r RetrievalResult) Empty() bool { return len(r.Passages) == 0 }
