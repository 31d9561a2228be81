package retrieval

import (
	"context"
	"log/slog"

	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/model"
)

// ChunkSource lists the chunks available for ranking.
type ChunkSource interface {
	ListAllChunks(ctx context.Context) ([]*model.Chunk, error)
}

// Engine embeds a query and ranks the stored chunks against it.
type Engine struct {
	embedder adapter.Embedder
	source   ChunkSource
	log      *slog.Logger
}

func NewEngine(embedder adapter.Embedder, source ChunkSource, log *slog.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		source:   source,
		log:      log,
	}
}

// Retrieve returns the chunks most similar to the query text according to
// the given config, or the defaults when config is nil. An empty store
// yields an empty result, not an error.
func (e *Engine) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.ScoredChunk, error) {
	if config == nil {
		config = model.DefaultQueryConfig()
	}

	queryVector, err := e.embedder.Embed(ctx, queryText, adapter.TaskTypeQuery)
	if err != nil {
		return nil, model.NewStageError(model.StageEmbedding, err)
	}

	candidates, err := e.source.ListAllChunks(ctx)
	if err != nil {
		return nil, model.NewStageError(model.StageRetrieval, err)
	}
	if len(candidates) == 0 {
		return []*model.ScoredChunk{}, nil
	}

	result, err := Rank(queryVector, candidates, config.SimilarityThreshold, config.TopK)
	if err != nil {
		return nil, err
	}

	for _, skipped := range result.Skipped {
		e.log.Warn("chunk skipped during ranking",
			slog.String("chunkId", skipped.Chunk.ID),
			slog.String("reason", skipped.Reason))
	}
	e.log.Info("chunks ranked",
		slog.Int("candidates", len(candidates)),
		slog.Int("aboveThreshold", len(result.Ranked)),
		slog.Int("skipped", len(result.Skipped)))

	return result.Ranked, nil
}
