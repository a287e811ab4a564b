package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperqa/internal/domain"
	"paperqa/internal/testutils"
)

func result(mode domain.RetrievalMode, texts map[int]string, order ...int) domain.RetrievalResult {
	res := domain.RetrievalResult{Mode: mode}
	for i, pos := range order {
		res.Passages = append(res.Passages, domain.RankedPassage{
			Passage: domain.Passage{Position: pos, Text: texts[pos]},
			Score:   1 - float64(i)*0.1,
		})
	}
	return res
}

func TestCompose_EmptyResult(t *testing.T) {
	_, err := NewComposer(Config{}).Compose("q", domain.RetrievalResult{Mode: domain.ModeLexical})
	assert.ErrorIs(t, err, domain.ErrNoRelevantContext)
}

func TestCompose_TagsFollowResultOrder(t *testing.T) {
	texts := map[int]string{0: "first passage", 3: "fourth passage", 7: "eighth passage"}
	req, err := NewComposer(Config{}).Compose("¿Qué dice?", result(domain.ModeSemantic, texts, 7, 0, 3))
	require.NoError(t, err)

	require.Len(t, req.Citations, 3)
	assert.Equal(t, "C1", req.Citations[0].Tag)
	assert.Equal(t, 7, req.Citations[0].Position)
	assert.Equal(t, "C2", req.Citations[1].Tag)
	assert.Equal(t, 0, req.Citations[1].Position)
	assert.Equal(t, "C3", req.Citations[2].Tag)
	assert.Equal(t, 3, req.Citations[2].Position)

	assert.Contains(t, req.Prompt, "[C1] eighth passage")
	assert.Contains(t, req.Prompt, "[C2] first passage")
	assert.Contains(t, req.Prompt, "[C3] fourth passage")
	assert.Less(t, strings.Index(req.Prompt, "[C1]"), strings.Index(req.Prompt, "[C2]"))
	assert.Less(t, strings.Index(req.Prompt, "[C2]"), strings.Index(req.Prompt, "[C3]"))
}

func TestCompose_PromptContract(t *testing.T) {
	texts := map[int]string{0: "El gato duerme."}
	req, err := NewComposer(Config{}).Compose("¿Qué hace el gato?", result(domain.ModeLexical, texts, 0))
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "¿Qué hace el gato?")
	assert.Contains(t, req.Prompt, `"`+domain.NotFoundAnswer+`"`)
	assert.Contains(t, req.Prompt, "Fuentes: [C#, ...]")
	assert.Contains(t, req.Prompt, "Responde en español")
	assert.Equal(t, "¿Qué hace el gato?", req.Question)
}

func TestCompose_Language(t *testing.T) {
	req, err := NewComposer(Config{Language: "inglés"}).Compose("q", result(domain.ModeLexical, map[int]string{0: "x"}, 0))
	require.NoError(t, err)
	assert.Contains(t, req.Prompt, "Responde en inglés")
}

func TestCompose_TruncatesByRunes(t *testing.T) {
	long := strings.Repeat("ñ", DefaultMaxPassageChars+50)
	req, err := NewComposer(Config{}).Compose("q", result(domain.ModeLexical, map[int]string{0: long}, 0))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPassageChars, len([]rune(req.Citations[0].Text)))
	assert.NotContains(t, req.Prompt, long)

	req, err = NewComposer(Config{MaxPassageChars: 5}).Compose("q", result(domain.ModeLexical, map[int]string{0: "abcdefgh"}, 0))
	require.NoError(t, err)
	assert.Equal(t, "abcde", req.Citations[0].Text)

	req, err = NewComposer(Config{MaxPassageChars: 5}).Compose("q", result(domain.ModeLexical, map[int]string{0: "abc"}, 0))
	require.NoError(t, err)
	assert.Equal(t, "abc", req.Citations[0].Text)
}

func TestAnswer_EmptyResultSkipsGenerator(t *testing.T) {
	gen := &testutils.FakeGenerator{Text: "should not be used"}
	ans, err := NewComposer(Config{}).Answer(context.Background(), gen, "q", domain.RetrievalResult{Mode: domain.ModeSemantic})
	require.NoError(t, err)
	assert.Equal(t, domain.NotFoundAnswer, ans.Text)
	assert.True(t, ans.NotFound)
	assert.Equal(t, domain.ModeSemantic, ans.Mode)
	assert.Zero(t, gen.PromptCount())
}

func TestAnswer_NilGenerator(t *testing.T) {
	c := NewComposer(Config{})
	res := result(domain.ModeLexical, map[int]string{0: "the dog ran"}, 0)
	_, err := c.Answer(context.Background(), nil, "q", res)
	assert.ErrorIs(t, err, domain.ErrGeneration)

	ans, err := c.Answer(context.Background(), nil, "q", domain.RetrievalResult{Mode: domain.ModeLexical})
	require.NoError(t, err)
	assert.True(t, ans.NotFound)
}

func TestAnswer_TrimsGeneratedText(t *testing.T) {
	gen := &testutils.FakeGenerator{Text: "  El gato duerme. Fuentes: [C1]\n"}
	ans, err := NewComposer(Config{}).Answer(context.Background(), gen, "q", result(domain.ModeLexical, map[int]string{2: "El gato duerme."}, 2))
	require.NoError(t, err)
	assert.Equal(t, "El gato duerme. Fuentes: [C1]", ans.Text)
	assert.False(t, ans.NotFound)
	assert.Equal(t, domain.ModeLexical, ans.Mode)
	require.Len(t, ans.Citations, 1)
	assert.Equal(t, 2, ans.Citations[0].Position)
	require.Equal(t, 1, gen.PromptCount())
	assert.Contains(t, gen.Prompts[0], "[C1] El gato duerme.")
}

func TestAnswer_BlankReplyIsSentinel(t *testing.T) {
	gen := &testutils.FakeGenerator{Text: " \n\t "}
	ans, err := NewComposer(Config{}).Answer(context.Background(), gen, "q", result(domain.ModeLexical, map[int]string{0: "x"}, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.NotFoundAnswer, ans.Text)
	assert.True(t, ans.NotFound)
}

func TestAnswer_ModelReturnsSentinel(t *testing.T) {
	gen := &testutils.FakeGenerator{Text: domain.NotFoundAnswer}
	ans, err := NewComposer(Config{}).Answer(context.Background(), gen, "q", result(domain.ModeLexical, map[int]string{0: "x"}, 0))
	require.NoError(t, err)
	assert.True(t, ans.NotFound)
}

func TestAnswer_ProviderError(t *testing.T) {
	gen := &testutils.FakeGenerator{Err: errors.New("quota exceeded")}
	_, err := NewComposer(Config{}).Answer(context.Background(), gen, "q", result(domain.ModeLexical, map[int]string{0: "x"}, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "quota exceeded")
}
