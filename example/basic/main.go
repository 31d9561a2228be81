package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mlewan/grounder"
	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/helper"
	"github.com/mlewan/grounder/model"
)

const sampleContent = `This is a sample rental agreement.

The monthly rent is 1200 euros, payable on the first day of each month.
A deposit of two monthly rents is due before the handover of the keys.

Either party may terminate this agreement with three months written notice.
Termination must be declared in writing and takes effect at the end of a calendar month.

The tenant is responsible for minor repairs up to a value of 100 euros per case.
Larger repairs are the responsibility of the landlord.`

func main() {
	// Load GEMINI_API_KEY from .env if present
	_ = godotenv.Load()
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is not set")
	}

	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	embedder, err := adapter.NewGeminiEmbedder(ctx, adapter.GeminiConfig{APIKey: apiKey})
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	generator, err := adapter.NewGeminiGenerator(ctx, adapter.GeminiConfig{APIKey: apiKey})
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	g, err := grounder.New(dbConfig, 768, adapter.NewCachingEmbedder(embedder, 0, 0), generator)
	if err != nil {
		log.Fatalf("Failed to create grounder: %v", err)
	}
	defer g.Close()

	// Ingest the sample document
	doc := &model.Document{
		Name:    "rental-agreement",
		Source:  "rental_agreement.txt",
		Content: sampleContent,
		Metadata: model.Metadata{
			"topic": "rental agreement",
		},
	}

	fmt.Println("Ingesting document...")
	numChunks, err := g.IngestDocument(ctx, doc)
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Inserted %d chunks\n", numChunks)

	// Ask a question grounded in the document
	question := "How can the agreement be terminated?"
	fmt.Printf("\nQuestion: %s\n", question)

	answer, err := g.Answer(ctx, question, nil)
	if err != nil {
		log.Fatalf("Failed to answer: %v", err)
	}

	fmt.Printf("\nAnswer: %s\n", answer.Text)
	fmt.Printf("Sources: %v\n", answer.Citations)
}
