package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	t.Run("Pads sequence index to four digits", func(t *testing.T) {
		assert.Equal(t, "iso27001_chunk_0000", ChunkID("iso27001", 0))
		assert.Equal(t, "iso27001_chunk_0042", ChunkID("iso27001", 42))
	})

	t.Run("Keeps lexicographic order aligned with document order", func(t *testing.T) {
		assert.Less(t, ChunkID("doc", 3), ChunkID("doc", 10))
	})
}

func TestDefaultQueryConfig(t *testing.T) {
	t.Run("Default topK and threshold", func(t *testing.T) {
		config := DefaultQueryConfig()

		assert.Equal(t, 5, config.TopK)
		assert.Equal(t, 0.7, config.SimilarityThreshold)
	})
}

func TestDefaultChunkConfig(t *testing.T) {
	t.Run("Default size and overlap", func(t *testing.T) {
		config := DefaultChunkConfig()

		assert.Equal(t, 1000, config.TargetSize)
		assert.Equal(t, 200, config.Overlap)
	})
}

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Valid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.txt")
		require.NoError(t, os.WriteFile(path, []byte("some content"), 0o644))

		doc, err := NewDocumentFromFile(path, Metadata{"year": 2024})

		require.NoError(t, err)
		assert.Equal(t, "report", doc.Name)
		assert.Equal(t, path, doc.Source)
		assert.Equal(t, "some content", doc.Content)
		assert.Equal(t, DocumentStatusPending, doc.Status)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := NewDocumentFromFile("does/not/exist.txt", nil)

		assert.Error(t, err)
	})
}

func TestStageError(t *testing.T) {
	t.Run("Reports stage and wrapped error", func(t *testing.T) {
		inner := errors.New("quota exceeded")
		err := NewStageError(StageEmbedding, inner)

		assert.Contains(t, err.Error(), "embedding failed")
		assert.Contains(t, err.Error(), "quota exceeded")
		assert.ErrorIs(t, err, inner)
	})
}

func TestDimensionMismatchError(t *testing.T) {
	t.Run("Reports chunk and dimensions", func(t *testing.T) {
		err := &DimensionMismatchError{ChunkID: "doc_chunk_0001", Expected: 768, Got: 512}

		assert.Contains(t, err.Error(), "doc_chunk_0001")
		assert.Contains(t, err.Error(), "768")
		assert.Contains(t, err.Error(), "512")
	})
}
