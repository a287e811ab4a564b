package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LogConfig controls the leveled logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output while the TUI owns the terminal. Empty discards it.
	File string `yaml:"file"`
}

// ChunkerConfig configures how documents are split into passages.
type ChunkerConfig struct {
	Type string `yaml:"type"`
	// word chunker
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
	// sentence chunker
	SentencesPerChunk int `yaml:"sentences_per_chunk"`
	OverlapSentences  int `yaml:"overlap_sentences"`
}

// GeminiConfig holds Gemini API settings shared by embedder and generator.
type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// OpenAIConfig holds settings for OpenAI-compatible endpoints.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// HTTPEmbedderConfig configures a generic JSON embedding endpoint.
type HTTPEmbedderConfig struct {
	URL            string `yaml:"url"`
	Shape          string `yaml:"shape"` // openai (default) or ollama
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	QueryPrefix    string `yaml:"query_prefix"`
	DocumentPrefix string `yaml:"document_prefix"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding capability.
type EmbedderConfig struct {
	Type   string              `yaml:"type"`
	Gemini *GeminiConfig       `yaml:"gemini,omitempty"`
	OpenAI *OpenAIConfig       `yaml:"openai,omitempty"`
	HTTP   *HTTPEmbedderConfig `yaml:"http,omitempty"`
}

// GeneratorConfig selects and configures the generation provider.
type GeneratorConfig struct {
	Type        string        `yaml:"type"`
	Temperature float32       `yaml:"temperature"`
	Gemini      *GeminiConfig `yaml:"gemini,omitempty"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty"`
}

// RetrievalConfig holds ranking constants.
type RetrievalConfig struct {
	TopK              int     `yaml:"top_k"`
	SemanticThreshold float64 `yaml:"semantic_threshold"`
	LexicalFloor      float64 `yaml:"lexical_floor"`
}

// AnswerConfig configures prompt assembly.
type AnswerConfig struct {
	MaxPassageChars int    `yaml:"max_passage_chars"`
	Language        string `yaml:"language"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Log        LogConfig        `yaml:"log"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Answer     AnswerConfig     `yaml:"answer"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	// decode over the defaults so keys absent from the file keep their value
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/paperqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/paperqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "paperqa", "config.yaml"), nil
}

// Default returns the built-in configuration: Gemini for both embeddings and
// generation, word-window chunks of 220 tokens with 40 overlap.
func Default() *AppConfig {
	cfg := &AppConfig{
		Log:        LogConfig{Level: "info"},
		Chunker:    ChunkerConfig{Type: "word", Overlap: 40, OverlapSentences: 1},
		Embedder:   EmbedderConfig{Type: "gemini"},
		Generator:  GeneratorConfig{Type: "gemini", Temperature: 0.2},
		Retrieval:  RetrievalConfig{SemanticThreshold: 0.15},
		Summarizer: SummarizerConfig{Type: "frequency"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "word"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 220
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	switch cfg.Embedder.Type {
	case "gemini":
		cfg.Embedder.Gemini = geminiDefaults(cfg.Embedder.Gemini, "text-embedding-004")
	case "openai":
		cfg.Embedder.OpenAI = openAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	case "http":
		if cfg.Embedder.HTTP == nil {
			cfg.Embedder.HTTP = &HTTPEmbedderConfig{}
		}
		if cfg.Embedder.HTTP.TimeoutSecs == 0 {
			cfg.Embedder.HTTP.TimeoutSecs = 30
		}
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "gemini"
	}
	switch cfg.Generator.Type {
	case "gemini":
		cfg.Generator.Gemini = geminiDefaults(cfg.Generator.Gemini, "gemini-2.5-flash")
	case "openai":
		cfg.Generator.OpenAI = openAIDefaults(cfg.Generator.OpenAI, "gpt-4o-mini")
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if cfg.Answer.MaxPassageChars == 0 {
		cfg.Answer.MaxPassageChars = 1700
	}
	if cfg.Answer.Language == "" {
		cfg.Answer.Language = "español"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
}

func geminiDefaults(c *GeminiConfig, model string) *GeminiConfig {
	if c == nil {
		c = &GeminiConfig{}
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	return c
}

func openAIDefaults(c *OpenAIConfig, model string) *OpenAIConfig {
	if c == nil {
		c = &OpenAIConfig{}
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	return c
}

// Validate rejects unknown component types and non-positive sizes.
func (c *AppConfig) Validate() error {
	switch c.Chunker.Type {
	case "word", "sentence":
	default:
		return fmt.Errorf("unknown chunker type %q", c.Chunker.Type)
	}
	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunker.chunk_size must be positive, got %d", c.Chunker.ChunkSize)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.OverlapSentences < 0 {
		return errors.New("chunker overlap must not be negative")
	}
	if c.Chunker.SentencesPerChunk <= 0 {
		return fmt.Errorf("chunker.sentences_per_chunk must be positive, got %d", c.Chunker.SentencesPerChunk)
	}
	switch c.Embedder.Type {
	case "gemini", "openai", "tfidf", "none":
	case "http":
		if c.Embedder.HTTP == nil || c.Embedder.HTTP.URL == "" {
			return errors.New("embedder.http.url is required for the http embedder")
		}
		switch c.Embedder.HTTP.Shape {
		case "", "openai", "ollama":
		default:
			return fmt.Errorf("unknown embedder.http.shape %q", c.Embedder.HTTP.Shape)
		}
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	switch c.Generator.Type {
	case "gemini", "openai", "none":
	default:
		return fmt.Errorf("unknown generator type %q", c.Generator.Type)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Answer.MaxPassageChars <= 0 {
		return fmt.Errorf("answer.max_passage_chars must be positive, got %d", c.Answer.MaxPassageChars)
	}
	switch c.Summarizer.Type {
	case "frequency", "none":
	default:
		return fmt.Errorf("unknown summarizer type %q", c.Summarizer.Type)
	}
	return nil
}
