// Command pdfqa ingests a PDF and answers questions about it from the
// command line.
//
// Usage:
//
//	pdfqa <file.pdf> "<question>" [more questions...]
//
// Configuration is read from config.yaml next to the binary if present.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mlewan/grounder"
	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/config"
	"github.com/mlewan/grounder/database"
	"github.com/mlewan/grounder/model"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <file.pdf> \"<question>\" [more questions...]", os.Args[0])
	}
	pdfPath := os.Args[1]
	questions := os.Args[2:]

	_ = godotenv.Load()
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	embedder, generator, err := buildAdapters(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build adapters: %v", err)
	}

	g, err := grounder.NewWithStore(database.NewMemoryStore(), adapter.NewCachingEmbedder(embedder, 0, 0), generator)
	if err != nil {
		log.Fatalf("Failed to create grounder: %v", err)
	}
	if err := g.UseChunkConfig(&model.ChunkConfig{TargetSize: cfg.Chunker.TargetSize, Overlap: cfg.Chunker.Overlap}); err != nil {
		log.Fatalf("Invalid chunk config: %v", err)
	}

	name := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	fmt.Printf("Ingesting %s...\n", pdfPath)
	count, err := g.IngestPDF(ctx, pdfPath, name)
	if err != nil {
		log.Fatalf("Failed to ingest PDF: %v", err)
	}
	fmt.Printf("Inserted %d chunks\n", count)

	queryConfig := &model.QueryConfig{TopK: cfg.Query.TopK, SimilarityThreshold: cfg.Query.SimilarityThreshold}
	for _, question := range questions {
		fmt.Printf("\nQuestion: %s\n", question)
		answer, err := g.Answer(ctx, question, queryConfig)
		if err != nil {
			log.Fatalf("Failed to answer: %v", err)
		}
		fmt.Printf("Answer: %s\n", answer.Text)
		fmt.Printf("Sources: %v\n", answer.Citations)
	}
}

func buildAdapters(ctx context.Context, cfg *config.AppConfig) (adapter.Embedder, adapter.Generator, error) {
	switch cfg.Adapter.Provider {
	case "gemini":
		geminiCfg := adapter.GeminiConfig{
			APIKey:        os.Getenv(cfg.Adapter.Gemini.APIKeyEnv),
			EmbedModel:    cfg.Adapter.Gemini.EmbedModel,
			GenerateModel: cfg.Adapter.Gemini.GenerateModel,
			OutputDim:     int32(cfg.EmbeddingDim),
		}
		embedder, err := adapter.NewGeminiEmbedder(ctx, geminiCfg)
		if err != nil {
			return nil, nil, err
		}
		generator, err := adapter.NewGeminiGenerator(ctx, geminiCfg)
		if err != nil {
			return nil, nil, err
		}
		return embedder, generator, nil
	case "openai":
		openAICfg := adapter.OpenAIConfig{
			APIKey:        os.Getenv(cfg.Adapter.OpenAI.APIKeyEnv),
			BaseURL:       cfg.Adapter.OpenAI.BaseURL,
			EmbedModel:    cfg.Adapter.OpenAI.EmbedModel,
			GenerateModel: cfg.Adapter.OpenAI.GenerateModel,
		}
		embedder, err := adapter.NewOpenAIEmbedder(openAICfg)
		if err != nil {
			return nil, nil, err
		}
		generator, err := adapter.NewOpenAIGenerator(openAICfg)
		if err != nil {
			return nil, nil, err
		}
		return embedder, generator, nil
	default:
		return nil, nil, fmt.Errorf("no generator available for provider %q", cfg.Adapter.Provider)
	}
}
