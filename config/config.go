// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeminiConfig configures the Gemini embedder and generator.
type GeminiConfig struct {
	APIKeyEnv     string `yaml:"api_key_env"`
	EmbedModel    string `yaml:"embed_model"`
	GenerateModel string `yaml:"generate_model"`
}

// OpenAIConfig configures the OpenAI embedder and generator.
type OpenAIConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKeyEnv     string `yaml:"api_key_env"`
	EmbedModel    string `yaml:"embed_model"`
	GenerateModel string `yaml:"generate_model"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
}

// AdapterConfig selects the embedding and generation provider.
type AdapterConfig struct {
	Provider string        `yaml:"provider"`
	Gemini   *GeminiConfig `yaml:"gemini,omitempty"`
	OpenAI   *OpenAIConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	TargetSize int `yaml:"target_size"`
	Overlap    int `yaml:"overlap"`
}

// QueryConfig holds the retrieval defaults applied when a caller does not
// override them.
type QueryConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Adapter      AdapterConfig `yaml:"adapter"`
	Chunker      ChunkerConfig `yaml:"chunker"`
	Query        QueryConfig   `yaml:"query"`
	EmbeddingDim int           `yaml:"embedding_dim"`
}

// Load reads a config from the given path. If the file does not exist, it
// returns the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Adapter:      AdapterConfig{Provider: "gemini", Gemini: &GeminiConfig{APIKeyEnv: "GEMINI_API_KEY"}},
		Chunker:      ChunkerConfig{TargetSize: 1000, Overlap: 200},
		Query:        QueryConfig{TopK: 5, SimilarityThreshold: 0.7},
		EmbeddingDim: 768,
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Adapter.Provider == "" {
		cfg.Adapter.Provider = "gemini"
	}
	if cfg.Adapter.Provider == "gemini" && cfg.Adapter.Gemini == nil {
		cfg.Adapter.Gemini = &GeminiConfig{}
	}
	if cfg.Adapter.Gemini != nil && cfg.Adapter.Gemini.APIKeyEnv == "" {
		cfg.Adapter.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Adapter.OpenAI != nil {
		if cfg.Adapter.OpenAI.BaseURL == "" {
			cfg.Adapter.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Adapter.OpenAI.APIKeyEnv == "" {
			cfg.Adapter.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.Chunker.TargetSize == 0 {
		cfg.Chunker.TargetSize = 1000
	}
	if cfg.Chunker.TargetSize == 1000 && cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Query.TopK == 0 {
		cfg.Query.TopK = 5
	}
	if cfg.Query.SimilarityThreshold == 0 {
		cfg.Query.SimilarityThreshold = 0.7
	}
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = 768
	}
}

func validate(cfg *AppConfig) error {
	switch cfg.Adapter.Provider {
	case "gemini", "openai", "local":
	default:
		return fmt.Errorf("unknown adapter provider %q", cfg.Adapter.Provider)
	}
	if cfg.Adapter.Provider == "openai" && cfg.Adapter.OpenAI == nil {
		return fmt.Errorf("adapter provider is openai but no openai section is configured")
	}
	return nil
}
