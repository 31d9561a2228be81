package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports bad chunker or query parameters. It is raised
	// at configuration time, before any adapter call is made.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyGeneration reports that the generation adapter returned no
	// usable text. It is distinct from the legitimate no-relevant-chunks
	// short-circuit, which is a successful answer.
	ErrEmptyGeneration = errors.New("generation returned empty text")
)

// DimensionMismatchError reports a candidate chunk whose embedding dimension
// differs from the query vector. This aborts the whole ranking call: a
// mismatch signals a corrupted or stale index that must not silently degrade
// results.
type DimensionMismatchError struct {
	ChunkID  string
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch on chunk %s: expected %d, got %d", e.ChunkID, e.Expected, e.Got)
}

// Stage identifies the pipeline step a failure occurred in.
type Stage string

const (
	StageEmbedding  Stage = "embedding"
	StageRetrieval  Stage = "retrieval"
	StageGeneration Stage = "generation"
)

// StageError wraps an adapter or store failure with the pipeline stage it
// occurred in. The underlying error is propagated unmodified; retry policy
// belongs to the caller.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
