// Package index builds the immutable per-document Index.
package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kataras/golog"

	"paperqa/internal/domain"
	"paperqa/internal/logging"
)

// Builder drives a Chunker and an optional Embedder to produce an Index.
type Builder struct {
	chunker  domain.Chunker
	embedder domain.Embedder
	log      *golog.Logger
}

// NewBuilder returns a Builder. embedder may be nil, which always yields a lexical index.
func NewBuilder(chunker domain.Chunker, embedder domain.Embedder, log *golog.Logger) *Builder {
	return &Builder{chunker: chunker, embedder: embedder, log: logging.OrDiscard(log)}
}

// Build never fails: any embedding problem degrades the whole index to lexical mode.
func (b *Builder) Build(ctx context.Context, text string) domain.Index {
	idx := domain.Index{ID: uuid.NewString(), Mode: domain.ModeLexical}
	idx.Passages = b.chunker.Chunk(text)
	if len(idx.Passages) == 0 {
		b.log.Infof("index %s: no passages, lexical mode", idx.ID)
		return idx
	}
	if b.embedder == nil {
		b.log.Infof("index %s: %d passages, no embedder configured, lexical mode", idx.ID, len(idx.Passages))
		return idx
	}

	vectors, err := b.embedAll(ctx, idx.Passages)
	if err != nil {
		b.log.Warnf("index %s: %d passages, falling back to lexical mode: %v", idx.ID, len(idx.Passages), err)
		return idx
	}
	idx.Vectors = vectors
	idx.Mode = domain.ModeSemantic
	b.log.Infof("index %s: %d passages, semantic mode (%s, dim=%d)", idx.ID, len(idx.Passages), b.embedder.Name(), idx.Dimension())
	return idx
}

// embedAll embeds every passage in order. Nothing is returned unless all succeed
// and share one dimensionality.
func (b *Builder) embedAll(ctx context.Context, passages []domain.Passage) ([][]float32, error) {
	if p, ok := b.embedder.(domain.Preparer); ok {
		corpus := make([]string, len(passages))
		for i, ps := range passages {
			corpus[i] = ps.Text
		}
		if err := p.Prepare(corpus); err != nil {
			return nil, fmt.Errorf("%w: prepare: %v", domain.ErrEmbeddingUnavailable, err)
		}
	}
	vectors := make([][]float32, 0, len(passages))
	for _, ps := range passages {
		v, err := b.embedder.Embed(ctx, ps.Text, domain.RoleDocument)
		if err != nil {
			return nil, fmt.Errorf("passage %d: %w", ps.Position, err)
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("passage %d: %w: empty vector", ps.Position, domain.ErrEmbeddingUnavailable)
		}
		if len(vectors) > 0 && len(v) != len(vectors[0]) {
			return nil, fmt.Errorf("passage %d: %w: dimension %d, want %d", ps.Position, domain.ErrEmbeddingUnavailable, len(v), len(vectors[0]))
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}
