// Package grounder is a retrieval augmented question answering library.
// Documents are chunked, embedded and stored; questions are answered from
// the most similar chunks with citations back to the source documents.
package grounder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/core/generation"
	"github.com/mlewan/grounder/core/pipeline"
	"github.com/mlewan/grounder/core/retrieval"
	"github.com/mlewan/grounder/database"
	"github.com/mlewan/grounder/helper"
	"github.com/mlewan/grounder/loader"
	"github.com/mlewan/grounder/model"
	loadSql "github.com/mlewan/grounder/sql"
)

// Grounder wires the full pipeline: ingestion, storage, retrieval and
// grounded answer generation.
type Grounder struct {
	DB           *helper.Database
	Store        database.ChunkStore
	Documents    *database.DocumentsDBHandler
	Pipeline     *pipeline.Pipeline
	Engine       *retrieval.Engine
	Orchestrator *generation.Orchestrator
	// Logging
	log *slog.Logger

	embedder adapter.Embedder
}

// New creates a Grounder backed by a Postgres chunk store. The embedding
// dimension must match the embedder's output dimension; it is fixed at
// table creation.
func New(config *helper.DatabaseConfiguration, embeddingDim int, embedder adapter.Embedder, generator adapter.Generator) (*Grounder, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("grounder", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	g := &Grounder{
		DB:        db,
		Store:     chunks,
		Documents: documents,
		log:       logger,
	}
	err = g.wire(embedder, generator, model.DefaultChunkConfig())
	if err != nil {
		return nil, err
	}
	return g, nil
}

// NewWithStore creates a Grounder on top of an existing chunk store, for
// example a MemoryStore. No document registry is kept.
func NewWithStore(store database.ChunkStore, embedder adapter.Embedder, generator adapter.Generator) (*Grounder, error) {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	g := &Grounder{
		Store: store,
		log:   logger,
	}
	err := g.wire(embedder, generator, model.DefaultChunkConfig())
	if err != nil {
		return nil, err
	}
	return g, nil
}

// UseChunkConfig replaces the chunking configuration. Already ingested
// documents keep their chunking until they are ingested again.
func (g *Grounder) UseChunkConfig(config *model.ChunkConfig) error {
	chunker, err := pipeline.RecursiveChunker(config.TargetSize, config.Overlap)
	if err != nil {
		return err
	}
	g.Pipeline = pipeline.NewPipeline(chunker, g.embedder, g.log)
	return nil
}

func (g *Grounder) wire(embedder adapter.Embedder, generator adapter.Generator, chunkConfig *model.ChunkConfig) error {
	if embedder == nil {
		return helper.NewError("wire components", fmt.Errorf("embedder is nil"))
	}
	if generator == nil {
		return helper.NewError("wire components", fmt.Errorf("generator is nil"))
	}

	chunker, err := pipeline.RecursiveChunker(chunkConfig.TargetSize, chunkConfig.Overlap)
	if err != nil {
		return err
	}

	g.embedder = embedder
	g.Pipeline = pipeline.NewPipeline(chunker, embedder, g.log)
	g.Engine = retrieval.NewEngine(embedder, g.Store, g.log)
	g.Orchestrator = generation.NewOrchestrator(g.Engine, generator, g.log)
	return nil
}

// IngestDocument chunks and embeds the document content and stores the
// chunks under the document name. Ingesting the same name again replaces
// the previous chunks. Returns the number of stored chunks.
func (g *Grounder) IngestDocument(ctx context.Context, doc *model.Document) (int, error) {
	if doc.Content == "" {
		return 0, helper.NewError("ingest document", fmt.Errorf("document content is empty"))
	}

	if g.Documents != nil {
		if err := g.Documents.UpsertDocument(ctx, doc); err != nil {
			return 0, helper.NewError("register document", err)
		}
	}

	chunks, err := g.Pipeline.Process(ctx, doc.Content, doc.Name, doc.Source)
	if err != nil {
		return 0, err
	}

	return g.storeChunks(ctx, doc, chunks)
}

// IngestPDF extracts the PDF page by page, chunks and embeds the text and
// stores the chunks with their page numbers. Returns the number of stored
// chunks.
func (g *Grounder) IngestPDF(ctx context.Context, path, name string) (int, error) {
	pages, err := loader.ExtractPDFPages(path)
	if err != nil {
		return 0, helper.NewError("extract pdf", err)
	}
	if len(pages) == 0 {
		return 0, helper.NewError("extract pdf", fmt.Errorf("no extractable text in %s", path))
	}

	doc := &model.Document{Name: name, Source: path}
	if g.Documents != nil {
		if err := g.Documents.UpsertDocument(ctx, doc); err != nil {
			return 0, helper.NewError("register document", err)
		}
	}

	pipelinePages := make([]pipeline.Page, 0, len(pages))
	for _, page := range pages {
		pipelinePages = append(pipelinePages, pipeline.Page{Number: page.Number, Text: page.Text})
	}

	chunks, err := g.Pipeline.ProcessPages(ctx, pipelinePages, name, path)
	if err != nil {
		return 0, err
	}

	return g.storeChunks(ctx, doc, chunks)
}

func (g *Grounder) storeChunks(ctx context.Context, doc *model.Document, chunks []*model.Chunk) (int, error) {
	// Re-ingestion replaces all previous chunks of the document.
	if _, err := g.Store.DeleteChunksForDocument(ctx, doc.Name); err != nil {
		return 0, helper.NewError("delete previous chunks", err)
	}
	if err := g.Store.UpsertChunks(ctx, chunks); err != nil {
		return 0, helper.NewError("store chunks", err)
	}

	if g.Documents != nil {
		if _, err := g.Documents.UpdateDocumentStatus(ctx, doc.Name, len(chunks), model.DocumentStatusProcessed); err != nil {
			return 0, helper.NewError("update document status", err)
		}
	}

	g.log.Info("Ingested document", slog.String("name", doc.Name), slog.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// DeleteDocument removes a document's chunks and its registry entry.
func (g *Grounder) DeleteDocument(ctx context.Context, name string) error {
	if _, err := g.Store.DeleteChunksForDocument(ctx, name); err != nil {
		return helper.NewError("delete chunks", err)
	}
	if g.Documents != nil {
		if err := g.Documents.DeleteDocument(ctx, name); err != nil {
			return helper.NewError("delete document", err)
		}
	}
	return nil
}

// Retrieve returns the stored chunks most similar to the query. A nil
// config applies the defaults of top 5 above similarity 0.7.
func (g *Grounder) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.ScoredChunk, error) {
	return g.Engine.Retrieve(ctx, query, config)
}

// Answer generates a grounded answer for the question from the most
// similar stored chunks. When nothing relevant is found the answer says so
// and carries no citations.
func (g *Grounder) Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.GroundedAnswer, error) {
	return g.Orchestrator.Answer(ctx, question, config)
}

// Close closes the database connection
func (g *Grounder) Close() error {
	if g.DB != nil && g.DB.Instance != nil {
		return g.DB.Instance.Close()
	}
	return nil
}
