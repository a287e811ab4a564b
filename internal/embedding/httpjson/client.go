package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"paperqa/internal/domain"
	"paperqa/internal/embedding"
)

// Shape names the request body an endpoint accepts.
type Shape string

const (
	// ShapeOpenAI sends {"input": ..., "model": ...}.
	ShapeOpenAI Shape = "openai"
	// ShapeOllama sends {"prompt": ..., "model": ...}, as /api/embeddings expects.
	ShapeOllama Shape = "ollama"
)

// ErrUnknownShape is reported by Embed when Config.Shape is not recognised.
var ErrUnknownShape = errors.New("unknown request shape")

// Client is an embeddings client for JSON endpoints that speak either the
// OpenAI or the Ollama request shape. It never retries.
type Client struct {
	url            string
	shape          Shape
	apiKey         string
	keyRequired    bool
	model          string
	queryPrefix    string
	documentPrefix string
	client         *http.Client
}

// Config configures the JSON embeddings client.
type Config struct {
	// URL is the full embeddings endpoint, e.g. http://localhost:11434/api/embeddings.
	URL string
	// Shape selects the request body; empty means ShapeOpenAI.
	Shape Shape
	// APIKeyEnv names the env var with a bearer token; empty means no auth.
	APIKeyEnv      string
	Model          string
	QueryPrefix    string
	DocumentPrefix string
	Timeout        time.Duration
}

// NewClient creates a new embeddings client. A missing key is not an error
// here; every Embed call reports the embedder as unavailable instead.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = "https://api.openai.com/v1/embeddings"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Shape == "" {
		cfg.Shape = ShapeOpenAI
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	c := &Client{
		url:            cfg.URL,
		shape:          cfg.Shape,
		keyRequired:    cfg.APIKeyEnv != "",
		model:          cfg.Model,
		queryPrefix:    cfg.QueryPrefix,
		documentPrefix: cfg.DocumentPrefix,
		client:         &http.Client{Timeout: t},
	}
	if cfg.APIKeyEnv != "" {
		c.apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	return c
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "http" }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string, role domain.Role) ([]float32, error) {
	if c.keyRequired && c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", domain.ErrEmbeddingUnavailable)
	}
	if role == domain.RoleQuery {
		text = c.queryPrefix + text
	} else {
		text = c.documentPrefix + text
	}
	data, err := c.body(text)
	if err != nil {
		return nil, embedding.Unavailable(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, embedding.Unavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, embedding.Unavailable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: embeddings request failed: %s", domain.ErrEmbeddingUnavailable, resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, embedding.Unavailable(err)
	}
	return embedding.ExtractVector(payload)
}

func (c *Client) body(text string) ([]byte, error) {
	switch c.shape {
	case ShapeOpenAI:
		return json.Marshal(struct {
			Input string `json:"input"`
			Model string `json:"model"`
		}{text, c.model})
	case ShapeOllama:
		return json.Marshal(struct {
			Prompt string `json:"prompt"`
			Model  string `json:"model"`
		}{text, c.model})
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownShape, c.shape)
	}
}
