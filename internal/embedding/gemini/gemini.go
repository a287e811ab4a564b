package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"paperqa/internal/domain"
	"paperqa/internal/embedding"
)

const (
	DefaultModel = "text-embedding-004"

	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// embedAPI is the subset of *genai.Models used here.
type embedAPI interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder calls the Gemini embedContent API with asymmetric task types.
type Embedder struct {
	api   embedAPI
	model string
	// initErr is returned by every call when the client could not be built.
	initErr error
}

// Config configures the Gemini embedder.
type Config struct {
	APIKey    string
	APIKeyEnv string
	Model     string
}

// NewEmbedder builds a Gemini embedder. It never fails: without a usable
// credential every Embed call reports domain.ErrEmbeddingUnavailable.
func NewEmbedder(ctx context.Context, cfg Config) *Embedder {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	e := &Embedder{model: cfg.Model}
	key := cfg.APIKey
	if key == "" && cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		e.initErr = fmt.Errorf("%w: Gemini API key not set", domain.ErrEmbeddingUnavailable)
		return e
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		e.initErr = embedding.Unavailable(fmt.Errorf("failed to initialize genai client: %w", err))
		return e
	}
	e.api = client.Models
	return e
}

func (e *Embedder) Name() string { return "gemini" }

func (e *Embedder) Embed(ctx context.Context, text string, role domain.Role) ([]float32, error) {
	if e.initErr != nil {
		return nil, e.initErr
	}
	task := taskRetrievalDocument
	if role == domain.RoleQuery {
		task = taskRetrievalQuery
	}
	resp, err := e.api.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{TaskType: task},
	)
	if err != nil {
		return nil, embedding.Unavailable(err)
	}
	return vectorFromResponse(resp)
}

// vectorFromResponse extracts the first embedding of a Gemini response envelope.
func vectorFromResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", domain.ErrEmbeddingUnavailable)
	}
	for _, emb := range resp.Embeddings {
		if emb != nil && len(emb.Values) > 0 {
			return emb.Values, nil
		}
	}
	return nil, fmt.Errorf("%w: no embedding values in response", domain.ErrEmbeddingUnavailable)
}
