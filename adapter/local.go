package adapter

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/mlewan/grounder/helper"
)

const localEmbedModel = "sentence-transformers/all-MiniLM-L6-v2"

// LocalEmbedder runs a sentence transformer model locally through hugot.
// The all-MiniLM-L6-v2 model produces 384-dimensional embeddings, so a corpus
// embedded locally cannot be queried with a remote embedder and vice versa.
type LocalEmbedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewLocalEmbedder downloads the model if needed and initializes the hugot
// session with the Go backend.
func NewLocalEmbedder() (*LocalEmbedder, error) {
	modelPath, err := helper.PrepareModel(localEmbedModel)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "local-embedder-pipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return &LocalEmbedder{session: session, pipeline: pipeline}, nil
}

func (e *LocalEmbedder) ModelName() string {
	return localEmbedModel
}

// Embed generates an embedding for the text. Task type is not used by local
// sentence transformer models.
func (e *LocalEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding generated")
	}
	return result.Embeddings[0], nil
}

// Close destroys the hugot session.
func (e *LocalEmbedder) Close() error {
	return e.session.Destroy()
}
