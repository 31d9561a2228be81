package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/mlewan/grounder/helper"
	"github.com/pgvector/pgvector-go"
	"github.com/mlewan/grounder/model"
	loadSql "github.com/mlewan/grounder/sql"
)

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It loads chunk-related SQL functions and creates the chunks table with the
// given embedding dimension. If force is true, it will reload the SQL
// functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim < 1 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// UpsertChunks inserts or replaces the given chunks by ID.
func (h *ChunksDBHandler) UpsertChunks(ctx context.Context, chunks []*model.Chunk) error {
	for _, chunk := range chunks {
		row := h.db.Instance.QueryRowContext(ctx,
			`SELECT * FROM upsert_chunk($1, $2, $3, $4, $5, $6, $7, $8)`,
			chunk.ID,
			chunk.DocumentID,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.Source,
			chunk.PageNumber,
			chunk.SequenceIndex,
			chunk.Metadata,
		)

		err := row.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Content,
			pq.Array(&chunk.Embedding),
			&chunk.Source,
			&chunk.PageNumber,
			&chunk.SequenceIndex,
			&chunk.Metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return helper.NewError("scan", err)
		}
	}

	return nil
}

// ListAllChunks retrieves every stored chunk ordered by document and
// sequence index.
func (h *ChunksDBHandler) ListAllChunks(ctx context.Context) ([]*model.Chunk, error) {
	return h.queryChunks(ctx, `SELECT * FROM select_all_chunks()`)
}

// SelectChunksByDocument retrieves all chunks of one document in sequence
// order.
func (h *ChunksDBHandler) SelectChunksByDocument(ctx context.Context, documentID string) ([]*model.Chunk, error) {
	return h.queryChunks(ctx, `SELECT * FROM select_chunks_by_document($1)`, documentID)
}

// DeleteChunksForDocument deletes all chunks of a document and returns the
// number of deleted rows.
func (h *ChunksDBHandler) DeleteChunksForDocument(ctx context.Context, documentID string) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRowContext(ctx,
		`SELECT delete_chunks_for_document($1)`,
		documentID,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return deleted, nil
}

// CountChunks returns the total number of stored chunks.
func (h *ChunksDBHandler) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_chunks()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

func (h *ChunksDBHandler) queryChunks(ctx context.Context, query string, args ...any) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Content,
			pq.Array(&chunk.Embedding),
			&chunk.Source,
			&chunk.PageNumber,
			&chunk.SequenceIndex,
			&chunk.Metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}
