// Package openai implements domain.Generator on OpenAI-compatible chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

const DefaultModel = goopenai.GPT4oMini

// ErrNoAPIKey is returned by Generate when no credential was configured.
var ErrNoAPIKey = errors.New("openai: API key not set")

// Config configures the chat generator.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float32
}

// Generator sends the prompt as a single user message.
type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
}

func NewGenerator(cfg Config) *Generator {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	g := &Generator{model: cfg.Model, temperature: cfg.Temperature}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return g
	}
	clientCfg := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	g.client = goopenai.NewClientWithConfig(clientCfg)
	return g
}

func (g *Generator) Name() string { return "openai:" + g.model }

// Available reports whether a credential was found.
func (g *Generator) Available() bool { return g.client != nil }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrNoAPIKey
	}
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
