// Package service holds the question-answering session over one document.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kataras/golog"

	"paperqa/internal/answer"
	"paperqa/internal/chunker"
	"paperqa/internal/domain"
	"paperqa/internal/extract"
	"paperqa/internal/index"
	"paperqa/internal/logging"
	"paperqa/internal/retrieval"
)

var (
	// ErrNoDocument means no document text is loaded.
	ErrNoDocument = errors.New("no document loaded")
	// ErrNoGenerator means no usable generation provider is configured.
	ErrNoGenerator = errors.New("no generation provider configured")
	// ErrUnreadable wraps document extraction failures.
	ErrUnreadable = errors.New("unreadable document")
)

// Options wires a Session. Embedder, Generator and Summarizer may be nil.
type Options struct {
	Chunker             domain.Chunker
	Embedder            domain.Embedder
	Generator           domain.Generator
	Summarizer          domain.Summarizer
	SummaryMaxSentences int
	Retrieval           retrieval.Config
	Answer              answer.Config
	Logger              *golog.Logger
}

// Ingestion describes a loaded document.
type Ingestion struct {
	Path     string
	Words    int
	Passages int
	Mode     domain.RetrievalMode
	IndexID  string
	Summary  string
}

// Caption is the status line shown once a document is ready.
func (i Ingestion) Caption() string {
	return fmt.Sprintf("PDF listo para preguntas (%d palabras extraídas).", i.Words)
}

// Speaker identifies the author of a chat message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one entry of the chat transcript.
type Message struct {
	Speaker Speaker
	Text    string
}

// Session answers questions about the most recently ingested document.
// It is safe for concurrent use. Ingestion and questions are serialized, since
// an embedder may rebuild its state while an index is built.
type Session struct {
	builder    *index.Builder
	retriever  *retrieval.Retriever
	composer   *answer.Composer
	generator  domain.Generator
	summarizer domain.Summarizer
	maxSummary int
	log        *golog.Logger

	// work serializes ingest and Ask; mu guards the fields below it.
	work      sync.Mutex
	mu        sync.Mutex
	text      string
	idx       domain.Index
	ingestion Ingestion
	history   []Message
}

// NewSession wires a session. A nil Chunker means the default word chunker.
func NewSession(opts Options) *Session {
	log := logging.OrDiscard(opts.Logger)
	if opts.Chunker == nil {
		opts.Chunker = chunker.NewWordChunker(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	}
	return &Session{
		builder:    index.NewBuilder(opts.Chunker, opts.Embedder, log),
		retriever:  retrieval.NewRetriever(opts.Embedder, opts.Retrieval, log),
		composer:   answer.NewComposer(opts.Answer),
		generator:  opts.Generator,
		summarizer: opts.Summarizer,
		maxSummary: opts.SummaryMaxSentences,
		log:        log,
	}
}

// IngestFile extracts the text of path and replaces the current document.
// On failure the previous document is dropped as well.
func (s *Session) IngestFile(ctx context.Context, path string) (Ingestion, error) {
	doc, err := extract.File(ctx, path)
	if err != nil {
		s.Reset()
		return Ingestion{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return s.ingest(ctx, path, doc.Text), nil
}

// Ingest indexes text as the current document and clears the chat history.
func (s *Session) Ingest(ctx context.Context, text string) Ingestion {
	return s.ingest(ctx, "", text)
}

func (s *Session) ingest(ctx context.Context, path, text string) Ingestion {
	s.work.Lock()
	defer s.work.Unlock()

	idx := s.builder.Build(ctx, text)
	ing := Ingestion{
		Path:     path,
		Words:    len(strings.Fields(text)),
		Passages: len(idx.Passages),
		Mode:     idx.Mode,
		IndexID:  idx.ID,
	}
	if s.summarizer != nil && strings.TrimSpace(text) != "" {
		summary, err := s.summarizer.Summarize(text, s.maxSummary)
		if err != nil {
			s.log.Warnf("summary failed: %v", err)
		}
		ing.Summary = summary
	}
	s.log.Infof("ingested %d words into %d passages, %s mode", ing.Words, ing.Passages, ing.Mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.idx = idx
	s.ingestion = ing
	s.history = nil
	return ing
}

// Reset drops the current document and the chat history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = ""
	s.idx = domain.Index{}
	s.ingestion = Ingestion{}
	s.history = nil
}

// Document returns the current ingestion and whether a document is loaded.
func (s *Session) Document() (Ingestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestion, strings.TrimSpace(s.text) != ""
}

// History returns a copy of the chat transcript.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}

// Ask answers question from the current document. Both the question and the
// reply, or the localized error, are appended to the history.
func (s *Session) Ask(ctx context.Context, question string) (answer.Answer, error) {
	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	s.history = append(s.history, Message{Speaker: SpeakerUser, Text: question})
	text, idx := s.text, s.idx
	s.mu.Unlock()

	ans, err := s.ask(ctx, question, text, idx)
	reply := ans.Text
	if err != nil {
		reply = UserMessage(err)
	}
	s.mu.Lock()
	s.history = append(s.history, Message{Speaker: SpeakerAssistant, Text: reply})
	s.mu.Unlock()
	return ans, err
}

func (s *Session) ask(ctx context.Context, question, text string, idx domain.Index) (answer.Answer, error) {
	if !generatorReady(s.generator) {
		return answer.Answer{}, ErrNoGenerator
	}
	if strings.TrimSpace(text) == "" {
		return answer.Answer{}, ErrNoDocument
	}
	result := s.retriever.Retrieve(ctx, question, idx, 0)
	ans, err := s.composer.Answer(ctx, s.generator, question, result)
	if err != nil {
		s.log.Errorf("answer failed: %v", err)
		return answer.Answer{}, err
	}
	s.log.Debugf("answered with %d citations in %s mode", len(ans.Citations), ans.Mode)
	return ans, nil
}

// availability is implemented by generators that can tell whether they hold a credential.
type availability interface {
	Available() bool
}

func generatorReady(g domain.Generator) bool {
	if g == nil {
		return false
	}
	if a, ok := g.(availability); ok {
		return a.Available()
	}
	return true
}

// UserMessage renders err as the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoGenerator):
		return "Necesito una API key válida para responder."
	case errors.Is(err, ErrNoDocument):
		return "No hay contenido del PDF disponible para consultar."
	case errors.Is(err, domain.ErrGeneration):
		return "Error en el modelo: " + detail(err, domain.ErrGeneration)
	case errors.Is(err, ErrUnreadable):
		return "Error al leer el PDF: " + detail(err, ErrUnreadable)
	default:
		return err.Error()
	}
}

// detail strips the sentinel prefix added by fmt.Errorf("%w: %v", kind, cause).
func detail(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}
