package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mlewan/grounder/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingDim = 8

func testChunk(documentID string, sequenceIndex int) *model.Chunk {
	embedding := make([]float32, testEmbeddingDim)
	embedding[sequenceIndex%testEmbeddingDim] = 1
	return &model.Chunk{
		ID:            model.ChunkID(documentID, sequenceIndex),
		DocumentID:    documentID,
		Content:       fmt.Sprintf("content of chunk %d in %s", sequenceIndex, documentID),
		Embedding:     embedding,
		Source:        documentID + ".pdf",
		SequenceIndex: sequenceIndex,
		Metadata:      model.Metadata{"origin": "test"},
	}
}

func TestChunksNewChunksDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewChunksDBHandler", func(t *testing.T) {
		chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
		assert.NoError(t, err, "Expected NewChunksDBHandler to not return an error")
		require.NotNil(t, chunksDbHandler, "Expected NewChunksDBHandler to return a non-nil instance")
		require.NotNil(t, chunksDbHandler.db, "Expected NewChunksDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewChunksDBHandler with nil database", func(t *testing.T) {
		_, err := NewChunksDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating ChunksDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})

	t.Run("Invalid call NewChunksDBHandler with non positive dimension", func(t *testing.T) {
		_, err := NewChunksDBHandler(database, 0, false)
		assert.Error(t, err, "Expected error when creating ChunksDBHandler with zero embedding dimension")
	})
}

func TestChunksUpsert(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	t.Run("Upsert new chunks", func(t *testing.T) {
		chunks := []*model.Chunk{testChunk("upsert_doc", 0), testChunk("upsert_doc", 1)}

		err := chunksDbHandler.UpsertChunks(ctx, chunks)
		assert.NoError(t, err, "Expected UpsertChunks to not return an error")
		for _, chunk := range chunks {
			assert.WithinDuration(t, chunk.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		}

		// Cleanup
		_, err = chunksDbHandler.DeleteChunksForDocument(ctx, "upsert_doc")
		require.NoError(t, err)
	})

	t.Run("Upsert replaces an existing chunk", func(t *testing.T) {
		chunk := testChunk("replace_doc", 0)
		err := chunksDbHandler.UpsertChunks(ctx, []*model.Chunk{chunk})
		require.NoError(t, err)

		updated := testChunk("replace_doc", 0)
		updated.Content = "replaced content"
		err = chunksDbHandler.UpsertChunks(ctx, []*model.Chunk{updated})
		assert.NoError(t, err, "Expected upsert of an existing chunk to not return an error")

		stored, err := chunksDbHandler.SelectChunksByDocument(ctx, "replace_doc")
		require.NoError(t, err)
		require.Len(t, stored, 1, "Expected the existing chunk to be replaced, not duplicated")
		assert.Equal(t, "replaced content", stored[0].Content)

		// Cleanup
		_, err = chunksDbHandler.DeleteChunksForDocument(ctx, "replace_doc")
		require.NoError(t, err)
	})
}

func TestChunksSelect(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	page := 2
	withPage := testChunk("select_doc", 0)
	withPage.PageNumber = &page
	chunks := []*model.Chunk{withPage, testChunk("select_doc", 1), testChunk("other_doc", 0)}
	err = chunksDbHandler.UpsertChunks(ctx, chunks)
	require.NoError(t, err)
	defer func() {
		chunksDbHandler.DeleteChunksForDocument(ctx, "select_doc")
		chunksDbHandler.DeleteChunksForDocument(ctx, "other_doc")
	}()

	t.Run("Select chunks by document in sequence order", func(t *testing.T) {
		stored, err := chunksDbHandler.SelectChunksByDocument(ctx, "select_doc")
		assert.NoError(t, err, "Expected SelectChunksByDocument to not return an error")
		require.Len(t, stored, 2)
		assert.Equal(t, 0, stored[0].SequenceIndex)
		assert.Equal(t, 1, stored[1].SequenceIndex)
		require.NotNil(t, stored[0].PageNumber, "Expected page number to round trip")
		assert.Equal(t, 2, *stored[0].PageNumber)
		assert.Nil(t, stored[1].PageNumber, "Expected missing page number to stay nil")
		assert.Equal(t, model.Metadata{"origin": "test"}, stored[0].Metadata, "Expected metadata to round trip")
		assert.Len(t, stored[0].Embedding, testEmbeddingDim, "Expected embedding to round trip")
	})

	t.Run("List all chunks across documents", func(t *testing.T) {
		stored, err := chunksDbHandler.ListAllChunks(ctx)
		assert.NoError(t, err, "Expected ListAllChunks to not return an error")
		assert.GreaterOrEqual(t, len(stored), 3)
	})

	t.Run("Select chunks of unknown document returns empty", func(t *testing.T) {
		stored, err := chunksDbHandler.SelectChunksByDocument(ctx, "unknown_doc")
		assert.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestChunksDelete(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	t.Run("Delete chunks for document", func(t *testing.T) {
		chunks := []*model.Chunk{testChunk("delete_doc", 0), testChunk("delete_doc", 1), testChunk("keep_doc", 0)}
		err := chunksDbHandler.UpsertChunks(ctx, chunks)
		require.NoError(t, err)

		deleted, err := chunksDbHandler.DeleteChunksForDocument(ctx, "delete_doc")
		assert.NoError(t, err, "Expected DeleteChunksForDocument to not return an error")
		assert.Equal(t, 2, deleted)

		remaining, err := chunksDbHandler.SelectChunksByDocument(ctx, "keep_doc")
		require.NoError(t, err)
		assert.Len(t, remaining, 1, "Expected chunks of other documents to survive")

		// Cleanup
		_, err = chunksDbHandler.DeleteChunksForDocument(ctx, "keep_doc")
		require.NoError(t, err)
	})

	t.Run("Delete chunks of unknown document deletes nothing", func(t *testing.T) {
		deleted, err := chunksDbHandler.DeleteChunksForDocument(ctx, "unknown_doc")
		assert.NoError(t, err)
		assert.Equal(t, 0, deleted)
	})
}

func TestChunksCount(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	before, err := chunksDbHandler.CountChunks(ctx)
	require.NoError(t, err)

	err = chunksDbHandler.UpsertChunks(ctx, []*model.Chunk{testChunk("count_doc", 0)})
	require.NoError(t, err)
	defer chunksDbHandler.DeleteChunksForDocument(ctx, "count_doc")

	after, err := chunksDbHandler.CountChunks(ctx)
	assert.NoError(t, err, "Expected CountChunks to not return an error")
	assert.Equal(t, before+1, after)
}
