package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/model"
)

// Page is one unit of paginated input, typically a PDF page.
type Page struct {
	Number int
	Text   string
}

// Pipeline turns raw document text into embedded chunks ready for storage.
type Pipeline struct {
	chunker  ChunkFunc
	embedder adapter.Embedder
	log      *slog.Logger
}

func NewPipeline(chunker ChunkFunc, embedder adapter.Embedder, log *slog.Logger) *Pipeline {
	return &Pipeline{
		chunker:  chunker,
		embedder: embedder,
		log:      log,
	}
}

// Process chunks the given text and embeds every chunk with the document
// task type. The returned chunks carry contiguous sequence indexes from 0.
func (p *Pipeline) Process(ctx context.Context, text, documentID, source string) ([]*model.Chunk, error) {
	chunks, err := p.chunker(text, documentID, source)
	if err != nil {
		return nil, err
	}
	if err := p.embedAll(ctx, chunks); err != nil {
		return nil, err
	}

	p.log.Info("document processed", slog.String("documentId", documentID), slog.Int("chunks", len(chunks)))
	return chunks, nil
}

// ProcessPages chunks each page separately so that no chunk spans a page
// boundary, renumbers the chunks into one contiguous sequence for the whole
// document and records the page number on every chunk.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []Page, documentID, source string) ([]*model.Chunk, error) {
	var chunks []*model.Chunk
	for _, page := range pages {
		pageChunks, err := p.chunker(page.Text, documentID, source)
		if err != nil {
			return nil, err
		}
		for _, chunk := range pageChunks {
			number := page.Number
			chunk.PageNumber = &number
			chunk.SequenceIndex = len(chunks)
			chunk.ID = model.ChunkID(documentID, chunk.SequenceIndex)
			chunks = append(chunks, chunk)
		}
	}
	if err := p.embedAll(ctx, chunks); err != nil {
		return nil, err
	}

	p.log.Info("paginated document processed",
		slog.String("documentId", documentID),
		slog.Int("pages", len(pages)),
		slog.Int("chunks", len(chunks)))
	return chunks, nil
}

func (p *Pipeline) embedAll(ctx context.Context, chunks []*model.Chunk) error {
	for _, chunk := range chunks {
		embedding, err := p.embedder.Embed(ctx, chunk.Content, adapter.TaskTypeDocument)
		if err != nil {
			return model.NewStageError(model.StageEmbedding, fmt.Errorf("embedding chunk %s: %w", chunk.ID, err))
		}
		chunk.Embedding = embedding
	}
	return nil
}
