package generation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mlewan/grounder/adapter"
	"github.com/mlewan/grounder/model"
)

// Retriever produces the ranked chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.ScoredChunk, error)
}

// Orchestrator runs the full question answering flow: retrieve, build the
// grounded prompt, generate and attach citations.
type Orchestrator struct {
	retriever Retriever
	generator adapter.Generator
	log       *slog.Logger
}

func NewOrchestrator(retriever Retriever, generator adapter.Generator, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		log:       log,
	}
}

// Answer retrieves context for the question and generates a grounded answer.
// When no chunk passes the threshold the generator is not invoked at all and
// a fixed no-context answer with empty citations is returned.
func (o *Orchestrator) Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.GroundedAnswer, error) {
	chunks, err := o.retriever.Retrieve(ctx, question, config)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		o.log.Info("no relevant chunks found", slog.String("question", question))
		return &model.GroundedAnswer{Text: NoContextAnswer, Citations: []string{}}, nil
	}

	text, err := o.generator.Generate(ctx, BuildPrompt(question, chunks))
	if err != nil {
		return nil, model.NewStageError(model.StageGeneration, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyGeneration
	}

	citations := Citations(chunks)
	o.log.Info("answer generated",
		slog.Int("contextChunks", len(chunks)),
		slog.Int("citations", len(citations)))

	return &model.GroundedAnswer{Text: text, Citations: citations}, nil
}
