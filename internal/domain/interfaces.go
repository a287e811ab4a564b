package domain

import "context"

// Role selects whether text is embedded for indexing or for querying.
// Some providers produce asymmetric embeddings for the two.
type Role int

const (
	RoleDocument Role = iota
	RoleQuery
)

func (r Role) String() string {
	if r == RoleQuery {
		return "query"
	}
	return "document"
}

// Embedder turns text into a numeric vector. Any failure, including a missing
// credential or an unrecognisable response, is reported as an error wrapping
// ErrEmbeddingUnavailable.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string, role Role) ([]float32, error)
}

// Preparer is implemented by embedders that must see the whole corpus before
// they can embed any of it (TF-IDF).
type Preparer interface {
	Prepare(corpus []string) error
}

// Chunker splits normalized document text into ordered passages.
type Chunker interface {
	Chunk(text string) []Passage
}

// Generator produces text from a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
