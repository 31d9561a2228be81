// Package adapter provides the embedding and generation adapters the core
// pipeline depends on. Adapters normalize provider response shapes to plain
// values; the orchestrator never inspects provider payloads.
package adapter

import "context"

// TaskType distinguishes document-side from query-side embeddings for
// providers that support it.
type TaskType string

const (
	TaskTypeDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    TaskType = "RETRIEVAL_QUERY"
)

// Embedder converts text into a fixed-dimension vector. Implementations must
// return the same dimension for every call in a deployment.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error)
	ModelName() string
}

// Generator produces response text for a prompt. The returned string is
// trimmed; an empty result is reported by the orchestrator, not here.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
