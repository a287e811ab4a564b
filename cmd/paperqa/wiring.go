package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kataras/golog"

	"paperqa/internal/answer"
	"paperqa/internal/chunker"
	"paperqa/internal/config"
	"paperqa/internal/domain"
	"paperqa/internal/embedding/gemini"
	"paperqa/internal/embedding/httpjson"
	"paperqa/internal/embedding/openai"
	"paperqa/internal/embedding/tfidf"
	gengemini "paperqa/internal/generation/gemini"
	genopenai "paperqa/internal/generation/openai"
	"paperqa/internal/retrieval"
	"paperqa/internal/service"
	"paperqa/internal/summarizer"
)

// buildSession assembles the session described by cfg.
func buildSession(ctx context.Context, cfg *config.AppConfig, log *golog.Logger) (*service.Session, error) {
	ch, err := buildChunker(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	emb, err := buildEmbedder(ctx, cfg.Embedder)
	if err != nil {
		return nil, err
	}
	gen, err := buildGenerator(ctx, cfg.Generator)
	if err != nil {
		return nil, err
	}
	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}
	if emb != nil {
		log.Infof("embedder: %s", emb.Name())
	}
	if gen != nil {
		log.Infof("generator: %s", gen.Name())
	}
	return service.NewSession(service.Options{
		Chunker:             ch,
		Embedder:            emb,
		Generator:           gen,
		Summarizer:          sum,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		Retrieval: retrieval.Config{
			TopK:              cfg.Retrieval.TopK,
			SemanticThreshold: cfg.Retrieval.SemanticThreshold,
			LexicalFloor:      cfg.Retrieval.LexicalFloor,
		},
		Answer: answer.Config{
			MaxPassageChars: cfg.Answer.MaxPassageChars,
			Language:        cfg.Answer.Language,
		},
		Logger: log,
	}), nil
}

func buildChunker(cfg config.ChunkerConfig) (domain.Chunker, error) {
	switch cfg.Type {
	case "word", "":
		return chunker.NewWordChunker(cfg.ChunkSize, cfg.Overlap), nil
	case "sentence":
		return chunker.NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Type)
	}
}

// buildEmbedder returns nil for "none", which keeps every index lexical.
func buildEmbedder(ctx context.Context, cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "gemini", "":
		var gc config.GeminiConfig
		if cfg.Gemini != nil {
			gc = *cfg.Gemini
		}
		return gemini.NewEmbedder(ctx, gemini.Config{APIKeyEnv: gc.APIKeyEnv, Model: gc.Model}), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewEmbedder(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
		}), nil
	case "http":
		if cfg.HTTP == nil {
			return nil, fmt.Errorf("http embedder config missing")
		}
		return httpjson.NewClient(httpjson.Config{
			URL:            cfg.HTTP.URL,
			Shape:          httpjson.Shape(cfg.HTTP.Shape),
			APIKeyEnv:      cfg.HTTP.APIKeyEnv,
			Model:          cfg.HTTP.Model,
			QueryPrefix:    cfg.HTTP.QueryPrefix,
			DocumentPrefix: cfg.HTTP.DocumentPrefix,
			Timeout:        time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
		}), nil
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// buildGenerator returns nil for "none"; questions then fail with service.ErrNoGenerator.
func buildGenerator(ctx context.Context, cfg config.GeneratorConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "gemini", "":
		var gc config.GeminiConfig
		if cfg.Gemini != nil {
			gc = *cfg.Gemini
		}
		return gengemini.NewGenerator(ctx, gengemini.Config{
			APIKeyEnv:   gc.APIKeyEnv,
			Model:       gc.Model,
			Temperature: cfg.Temperature,
		}), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai generator config missing")
		}
		return genopenai.NewGenerator(genopenai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKeyEnv:   cfg.OpenAI.APIKeyEnv,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.Temperature,
		}), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}
