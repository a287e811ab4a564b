// Package answer turns retrieved passages into a grounded generation request
// and the model output into a final answer.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"paperqa/internal/domain"
)

const (
	DefaultMaxPassageChars = 1700
	DefaultLanguage        = "español"
)

// Citation ties a tag such as "C1" to the passage it labels.
type Citation struct {
	Tag      string
	Position int
	Score    float64
	Text     string
}

// Request is the prompt handed to the generation provider.
type Request struct {
	Question  string
	Prompt    string
	Citations []Citation
}

// Answer is the final outcome of one question.
type Answer struct {
	Text      string
	NotFound  bool
	Mode      domain.RetrievalMode
	Citations []Citation
}

// Config tunes the composer.
type Config struct {
	MaxPassageChars int
	Language        string
}

// Composer assembles grounded prompts.
type Composer struct {
	cfg Config
}

func NewComposer(cfg Config) *Composer {
	if cfg.MaxPassageChars <= 0 {
		cfg.MaxPassageChars = DefaultMaxPassageChars
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Composer{cfg: cfg}
}

var promptTmpl = template.Must(template.New("prompt").Parse(`Eres un asistente de preguntas y respuestas sobre un PDF.

Reglas estrictas:
1. Responde solo con información contenida en el CONTEXTO.
2. Si la respuesta no está en el CONTEXTO, responde exactamente:
   "{{.Sentinel}}"
3. No uses conocimiento externo.
4. Responde en {{.Language}} y de forma concisa.
5. Si respondes con contenido del contexto, incluye al final "Fuentes: [C#, ...]" con todas las etiquetas de los fragmentos usados.

PREGUNTA DEL USUARIO:
{{.Question}}

CONTEXTO:
{{range $i, $c := .Citations}}{{if $i}}

{{end}}[{{$c.Tag}}] {{$c.Text}}{{end}}
`))

// Compose returns domain.ErrNoRelevantContext when result is empty.
// Tags follow the result order, which is score order, not document order.
func (c *Composer) Compose(question string, result domain.RetrievalResult) (Request, error) {
	if result.Empty() {
		return Request{}, domain.ErrNoRelevantContext
	}
	citations := make([]Citation, len(result.Passages))
	for i, rp := range result.Passages {
		citations[i] = Citation{
			Tag:      fmt.Sprintf("C%d", i+1),
			Position: rp.Passage.Position,
			Score:    rp.Score,
			Text:     truncateRunes(rp.Passage.Text, c.cfg.MaxPassageChars),
		}
	}
	var b strings.Builder
	err := promptTmpl.Execute(&b, struct {
		Sentinel  string
		Language  string
		Question  string
		Citations []Citation
	}{domain.NotFoundAnswer, c.cfg.Language, question, citations})
	if err != nil {
		return Request{}, fmt.Errorf("render prompt: %w", err)
	}
	return Request{Question: question, Prompt: b.String(), Citations: citations}, nil
}

// Answer composes the request and runs it through gen. An empty result or an
// empty model reply yields the not-found sentinel without error; a provider
// failure, or a nil gen once there is context to send, is returned wrapped in
// domain.ErrGeneration.
func (c *Composer) Answer(ctx context.Context, gen domain.Generator, question string, result domain.RetrievalResult) (Answer, error) {
	req, err := c.Compose(question, result)
	if err != nil {
		if errors.Is(err, domain.ErrNoRelevantContext) {
			return notFound(result.Mode), nil
		}
		return Answer{}, err
	}
	if gen == nil {
		return Answer{}, fmt.Errorf("%w: no generator", domain.ErrGeneration)
	}
	text, err := gen.Generate(ctx, req.Prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return notFound(result.Mode), nil
	}
	return Answer{
		Text:      text,
		NotFound:  text == domain.NotFoundAnswer,
		Mode:      result.Mode,
		Citations: req.Citations,
	}, nil
}

func notFound(mode domain.RetrievalMode) Answer {
	return Answer{Text: domain.NotFoundAnswer, NotFound: true, Mode: mode}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
