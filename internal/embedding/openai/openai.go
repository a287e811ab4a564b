package openai

import (
	"context"
	"fmt"
	"os"

	goopenai "github.com/sashabaranov/go-openai"

	"paperqa/internal/domain"
	"paperqa/internal/embedding"
)

// Embedder uses the OpenAI embeddings API.
type Embedder struct {
	client *goopenai.Client
	model  string
}

// Config configures the OpenAI embedder.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

// NewEmbedder creates an OpenAI embedder. Without a key the returned embedder
// fails every call with domain.ErrEmbeddingUnavailable.
func NewEmbedder(cfg Config) *Embedder {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = string(goopenai.SmallEmbedding3)
	}
	e := &Embedder{model: cfg.Model}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return e
	}
	clientCfg := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	e.client = goopenai.NewClientWithConfig(clientCfg)
	return e
}

func (e *Embedder) Name() string { return "openai" }

// Embed ignores role; OpenAI embeddings are symmetric.
func (e *Embedder) Embed(ctx context.Context, text string, _ domain.Role) ([]float32, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: OpenAI API key not set", domain.ErrEmbeddingUnavailable)
	}
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, embedding.Unavailable(fmt.Errorf("OpenAI API error: %w", err))
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding data returned from API", domain.ErrEmbeddingUnavailable)
	}
	src := resp.Data[0].Embedding
	v := make([]float32, len(src))
	for i := range src {
		v[i] = float32(src[i])
	}
	return v, nil
}
