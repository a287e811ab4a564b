package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeAPI struct {
	resp       *genai.GenerateContentResponse
	err        error
	lastModel  string
	lastPrompt string
	lastConfig *genai.GenerateContentConfig
}

func (f *fakeAPI) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	f.lastConfig = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(texts))
	for i, t := range texts {
		parts[i] = &genai.Part{Text: t}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts, Role: genai.RoleModel}}},
	}
}

func TestGenerate(t *testing.T) {
	api := &fakeAPI{resp: textResponse("El gato duerme.", "Fuentes: [C1]")}
	g := &Generator{api: api, model: DefaultModel}

	out, err := g.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "El gato duerme.\nFuentes: [C1]", out)
	assert.Equal(t, DefaultModel, api.lastModel)
	assert.Equal(t, "prompt text", api.lastPrompt)
	assert.Nil(t, api.lastConfig.Temperature)
}

func TestGenerate_Temperature(t *testing.T) {
	api := &fakeAPI{resp: textResponse("ok")}
	g := &Generator{api: api, model: DefaultModel, temperature: 0.2}
	_, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.NotNil(t, api.lastConfig.Temperature)
	assert.InDelta(t, 0.2, *api.lastConfig.Temperature, 1e-6)
}

func TestGenerate_SkipsThoughtsAndEmptyCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		nil,
		{Content: nil},
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "thinking...", Thought: true}, {Text: " answer "}}}},
	}}
	g := &Generator{api: &fakeAPI{resp: resp}, model: DefaultModel}
	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestGenerate_NilResponse(t *testing.T) {
	g := &Generator{api: &fakeAPI{}, model: DefaultModel}
	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerate_ProviderError(t *testing.T) {
	g := &Generator{api: &fakeAPI{err: errors.New("429 quota")}, model: DefaultModel}
	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429 quota")
}

func TestNewGenerator_NoKey(t *testing.T) {
	t.Setenv("PAPERQA_TEST_GEMINI_KEY", "")
	g := NewGenerator(context.Background(), Config{APIKeyEnv: "PAPERQA_TEST_GEMINI_KEY"})
	assert.False(t, g.Available())
	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.EqualError(t, err, "gemini: API key not set")
	assert.Equal(t, "gemini:"+DefaultModel, g.Name())
}
