package model

import (
	"fmt"
	"time"
)

// Chunk represents a bounded segment of a source document together with its
// embedding vector. Chunks are immutable once created: they are produced
// during ingestion and removed only when their parent document is deleted.
type Chunk struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	Content       string    `json:"content"`
	Embedding     []float32 `json:"embedding,omitempty"`
	Source        string    `json:"source"`
	PageNumber    *int      `json:"page_number,omitempty"`
	SequenceIndex int       `json:"sequence_index"`
	Metadata      Metadata  `json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChunkID builds the canonical chunk identifier for a document and sequence
// index, e.g. "iso27001_chunk_0003". Zero-padding keeps lexicographic order
// aligned with document order, which the ranker relies on for tie-breaking.
func ChunkID(documentID string, sequenceIndex int) string {
	return fmt.Sprintf("%s_chunk_%04d", documentID, sequenceIndex)
}

// ScoredChunk pairs a chunk with its cosine similarity score for one query.
// Scores lie in [-1, 1].
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// SkippedChunk records a candidate that was excluded from ranking because a
// required field was missing. Skips are recoverable and are reported next to
// the ranked results so callers and tests can assert on the reason.
type SkippedChunk struct {
	Chunk  *Chunk `json:"chunk"`
	Reason string `json:"reason"`
}
