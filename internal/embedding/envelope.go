// Package embedding holds helpers shared by the embedding adapters under it.
package embedding

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"paperqa/internal/domain"
)

// vectorPaths lists the envelope shapes seen across providers, most specific first.
var vectorPaths = []string{
	"data.0.embedding",    // OpenAI-compatible
	"embedding.values",    // Gemini REST embedContent
	"embedding",           // Ollama /api/embeddings
	"embeddings.0.values", // Gemini batchEmbedContents
	"embeddings.0",        // Ollama /api/embed
	"values",              // bare ContentEmbedding
	"data.0",              // some proxies return data: [[...]]
	"result.embedding",    // Cloudflare-style wrappers
	"output.embeddings.0", // DashScope-style wrappers
}

// ExtractVector returns the first flat numeric array found in payload.
// Anything else is an error wrapping domain.ErrEmbeddingUnavailable.
func ExtractVector(payload []byte) ([]float32, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrEmbeddingUnavailable)
	}
	for _, path := range vectorPaths {
		if v, ok := numericArray(gjson.GetBytes(payload, path)); ok {
			return v, nil
		}
	}
	// a top-level array is accepted as-is
	if v, ok := numericArray(gjson.ParseBytes(payload)); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: no numeric vector in response", domain.ErrEmbeddingUnavailable)
}

func numericArray(r gjson.Result) ([]float32, bool) {
	if !r.IsArray() {
		return nil, false
	}
	items := r.Array()
	if len(items) == 0 {
		return nil, false
	}
	v := make([]float32, len(items))
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, false
		}
		v[i] = float32(item.Float())
	}
	return v, true
}

// Unavailable wraps err so callers can match it with errors.Is.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, domain.ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
}
