// Package retrieval ranks the passages of an Index against a question.
package retrieval

import (
	"context"
	"sort"

	"github.com/kataras/golog"

	"paperqa/internal/domain"
	"paperqa/internal/logging"
	"paperqa/internal/tokenize"
)

const (
	DefaultTopK              = 4
	DefaultSemanticThreshold = 0.15
	DefaultLexicalFloor      = 0.0
)

// Config holds the ranking constants. They are tuning choices, not contracts.
type Config struct {
	TopK int
	// SemanticThreshold keeps passages scoring >= the threshold. Zero selects
	// DefaultSemanticThreshold; a negative value keeps every ranked passage.
	SemanticThreshold float64
	// LexicalFloor keeps passages scoring strictly above the floor.
	LexicalFloor float64
}

// DefaultConfig returns the stock ranking constants.
func DefaultConfig() Config {
	return Config{
		TopK:              DefaultTopK,
		SemanticThreshold: DefaultSemanticThreshold,
		LexicalFloor:      DefaultLexicalFloor,
	}
}

// Retriever ranks passages by cosine similarity in semantic mode and by word
// overlap otherwise. It holds no per-index state.
type Retriever struct {
	embedder domain.Embedder
	cfg      Config
	log      *golog.Logger
}

// NewRetriever returns a Retriever. embedder may be nil; semantic indexes are
// then ranked lexically.
func NewRetriever(embedder domain.Embedder, cfg Config, log *golog.Logger) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.SemanticThreshold == 0 {
		cfg.SemanticThreshold = DefaultSemanticThreshold
	}
	return &Retriever{embedder: embedder, cfg: cfg, log: logging.OrDiscard(log)}
}

// Retrieve returns at most k passages (k <= 0 means the configured default).
// An empty result means no relevant context and is not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, idx domain.Index, k int) domain.RetrievalResult {
	if k <= 0 {
		k = r.cfg.TopK
	}
	if idx.Empty() {
		return domain.RetrievalResult{Mode: idx.Mode}
	}
	if idx.Mode == domain.ModeSemantic {
		if res, ok := r.semantic(ctx, question, idx, k); ok {
			return res
		}
	}
	return r.lexical(question, idx, k)
}

func (r *Retriever) semantic(ctx context.Context, question string, idx domain.Index, k int) (domain.RetrievalResult, bool) {
	if err := idx.Validate(); err != nil {
		r.log.Warnf("index %s rejected, ranking lexically: %v", idx.ID, err)
		return domain.RetrievalResult{}, false
	}
	if r.embedder == nil {
		r.log.Warnf("index %s is semantic but no embedder is configured, ranking lexically", idx.ID)
		return domain.RetrievalResult{}, false
	}
	query, err := r.embedder.Embed(ctx, question, domain.RoleQuery)
	if err != nil || len(query) == 0 {
		r.log.Warnf("query embedding unavailable, ranking lexically: %v", err)
		return domain.RetrievalResult{}, false
	}

	scored := make([]domain.RankedPassage, len(idx.Passages))
	for i, p := range idx.Passages {
		scored[i] = domain.RankedPassage{Passage: p, Score: CosineSimilarity(query, idx.Vectors[i])}
	}
	kept := topK(scored, k, func(s float64) bool { return s >= r.cfg.SemanticThreshold })
	r.log.Debugf("semantic retrieval: %d of %d passages kept", len(kept), len(idx.Passages))
	return domain.RetrievalResult{Mode: domain.ModeSemantic, Passages: kept}, true
}

func (r *Retriever) lexical(question string, idx domain.Index, k int) domain.RetrievalResult {
	q := tokenize.Set(question)
	scored := make([]domain.RankedPassage, len(idx.Passages))
	for i, p := range idx.Passages {
		scored[i] = domain.RankedPassage{Passage: p, Score: LexicalScore(q, p.Text)}
	}
	kept := topK(scored, k, func(s float64) bool { return s > r.cfg.LexicalFloor })
	r.log.Debugf("lexical retrieval: %d of %d passages kept", len(kept), len(idx.Passages))
	return domain.RetrievalResult{Mode: domain.ModeLexical, Passages: kept}
}

// topK sorts by descending score, ties by ascending position, truncates to k
// and only then applies keep.
func topK(scored []domain.RankedPassage, k int, keep func(float64) bool) []domain.RankedPassage {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Passage.Position < scored[j].Passage.Position
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	out := make([]domain.RankedPassage, 0, len(scored))
	for _, s := range scored {
		if keep(s.Score) {
			out = append(out, s)
		}
	}
	return out
}
