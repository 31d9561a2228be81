package adapter

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini embedding and generation adapters.
type GeminiConfig struct {
	APIKey        string
	EmbedModel    string
	GenerateModel string
	OutputDim     int32
}

// GeminiEmbedder embeds text through the Gemini API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	outputDim int32
}

// NewGeminiEmbedder creates a Gemini embedding adapter. The model defaults to
// text-embedding-004 with 768-dimensional output.
func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig) (*GeminiEmbedder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.EmbedModel
	if model == "" {
		model = "text-embedding-004"
	}
	dim := cfg.OutputDim
	if dim == 0 {
		dim = 768
	}
	return &GeminiEmbedder{client: client, model: model, outputDim: dim}, nil
}

func (e *GeminiEmbedder) ModelName() string {
	return e.model
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &e.outputDim,
	}
	if taskType != "" {
		config.TaskType = string(taskType)
	}

	resp, err := e.client.Models.EmbedContent(
		ctx,
		e.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return resp.Embeddings[0].Values, nil
}

// GeminiGenerator generates text through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini generation adapter. The model defaults
// to gemini-2.0-flash.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.GenerateModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
