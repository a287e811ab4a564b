package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	var req map[string]any
	srv := chatServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Respuesta. Fuentes: [C1] "},"finish_reason":"stop"}]}`,
		&req)

	t.Setenv("PAPERQA_TEST_OPENAI_KEY", "k")
	g := NewGenerator(Config{APIKeyEnv: "PAPERQA_TEST_OPENAI_KEY", BaseURL: srv.URL, Model: "m"})
	require.True(t, g.Available())

	out, err := g.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Respuesta. Fuentes: [C1]", out)

	assert.Equal(t, "m", req["model"])
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "the prompt", msgs[0].(map[string]any)["content"])
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[]}`, nil)
	t.Setenv("PAPERQA_TEST_OPENAI_KEY", "k")
	g := NewGenerator(Config{APIKeyEnv: "PAPERQA_TEST_OPENAI_KEY", BaseURL: srv.URL})
	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerate_ProviderError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil)
	t.Setenv("PAPERQA_TEST_OPENAI_KEY", "k")
	g := NewGenerator(Config{APIKeyEnv: "PAPERQA_TEST_OPENAI_KEY", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestGenerate_NoKey(t *testing.T) {
	t.Setenv("PAPERQA_TEST_OPENAI_KEY", "")
	g := NewGenerator(Config{APIKeyEnv: "PAPERQA_TEST_OPENAI_KEY"})
	assert.False(t, g.Available())
	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.EqualError(t, err, "openai: API key not set")
}
