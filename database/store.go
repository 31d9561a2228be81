package database

import (
	"context"

	"github.com/mlewan/grounder/model"
)

// ChunkStore is the persistence contract for embedded chunks. It is
// implemented by the Postgres backed ChunksDBHandler and by MemoryStore.
type ChunkStore interface {
	UpsertChunks(ctx context.Context, chunks []*model.Chunk) error
	ListAllChunks(ctx context.Context) ([]*model.Chunk, error)
	SelectChunksByDocument(ctx context.Context, documentID string) ([]*model.Chunk, error)
	DeleteChunksForDocument(ctx context.Context, documentID string) (int, error)
	CountChunks(ctx context.Context) (int64, error)
}
