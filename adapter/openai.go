package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIConfig configures the OpenAI-compatible adapters. BaseURL may point
// at any compatible endpoint.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	EmbedModel    string
	GenerateModel string
	Timeout       time.Duration
}

func (c *OpenAIConfig) applyDefaults() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("openai api key is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.EmbedModel == "" {
		c.EmbedModel = "text-embedding-3-small"
	}
	if c.GenerateModel == "" {
		c.GenerateModel = "gpt-4o-mini"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}

// OpenAIEmbedder embeds text through an OpenAI-compatible embeddings endpoint.
// OpenAI embeddings have no task type; the parameter is ignored.
type OpenAIEmbedder struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAIEmbedder creates an OpenAI embedding adapter.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &OpenAIEmbedder{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.cfg.EmbedModel
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	reqBody := map[string]any{
		"input": text,
		"model": e.cfg.EmbedModel,
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := e.post(ctx, "/embeddings", reqBody, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return result.Data[0].Embedding, nil
}

func (e *OpenAIEmbedder) post(ctx context.Context, path string, reqBody any, out any) error {
	return openAIPost(ctx, e.client, e.cfg, path, reqBody, out)
}

// OpenAIGenerator generates text through an OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAIGenerator creates an OpenAI generation adapter.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &OpenAIGenerator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model": g.cfg.GenerateModel,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := openAIPost(ctx, g.client, g.cfg, "/chat/completions", reqBody, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func openAIPost(ctx context.Context, client *http.Client, cfg OpenAIConfig, path string, reqBody any, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
