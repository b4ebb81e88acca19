// Package postprocessors provides the chunking stages run on each document.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Pipeline runs a document through its stages in order.
// The first stage creates the chunks; later stages annotate them in place.
type Pipeline struct {
	stages []driven.PostProcessor
}

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// NewPipeline creates a pipeline running stages in the order given.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// Process runs doc through every stage. Cancellation is checked before each
// stage. Every stage must return chunks of doc with ChunkIndex 0..n-1, and a
// stage after the first must keep the chunk count.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		if i > 0 && len(out) != len(chunks) {
			return nil, fmt.Errorf("processor %s: changed chunk count from %d to %d",
				stage.Name(), len(chunks), len(out))
		}
		if err := checkProvenance(doc, out); err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		chunks = out
	}

	return chunks, nil
}

func checkProvenance(doc *domain.Document, chunks []domain.Chunk) error {
	for i := range chunks {
		if chunks[i].ChunkIndex != i {
			return fmt.Errorf("chunk %d of %s has index %d", i, doc.Source, chunks[i].ChunkIndex)
		}
		if chunks[i].Source != doc.Source {
			return fmt.Errorf("chunk %d has source %q, want %q", i, chunks[i].Source, doc.Source)
		}
	}
	return nil
}
