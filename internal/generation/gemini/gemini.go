// Package gemini implements domain.Generator on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned by Generate when no credential was configured.
var ErrNoAPIKey = errors.New("gemini: API key not set")

type generateAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the Gemini generator.
type Config struct {
	APIKey      string
	APIKeyEnv   string
	Model       string
	Temperature float32
}

// Generator sends a single-turn prompt to a Gemini model.
type Generator struct {
	api         generateAPI
	model       string
	temperature float32
	initErr     error
}

// NewGenerator returns a generator; a missing key surfaces on Generate.
// Use Available to check up front.
func NewGenerator(ctx context.Context, cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	g := &Generator{model: cfg.Model, temperature: cfg.Temperature}
	key := cfg.APIKey
	if key == "" && cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		g.initErr = ErrNoAPIKey
		return g
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		g.initErr = fmt.Errorf("failed to create Gemini client: %w", err)
		return g
	}
	g.api = client.Models
	return g
}

func (g *Generator) Name() string { return "gemini:" + g.model }

// Available reports whether the generator has a usable client.
func (g *Generator) Available() bool { return g.initErr == nil }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.initErr != nil {
		return "", g.initErr
	}
	config := &genai.GenerateContentConfig{}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(g.temperature)
	}
	resp, err := g.api.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
