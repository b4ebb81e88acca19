package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// EmbedService adds embeddings to chunks in batches.
type EmbedService struct {
	embedder   driven.EmbeddingService
	dimensions int
	batchSize  int
	workers    int
	runs       ledger
}

// NewEmbedService creates a new embed service.
// Batch size and workers only affect throughput, never the vectors produced.
func NewEmbedService(embedder driven.EmbeddingService, settings domain.EmbeddingSettings) *EmbedService {
	return &EmbedService{
		embedder:   embedder,
		dimensions: settings.Dimensions,
		batchSize:  max(settings.BatchSize, 1),
		workers:    max(settings.Workers, 1),
	}
}

// SetRunStore sets the run ledger. Optional.
func (s *EmbedService) SetRunStore(store driven.RunStore) {
	s.runs = ledger{store: store}
}

// Embed returns copies of chunks with their Embedding set, in input order.
// Batches run on a bounded worker pool. Any failed batch fails the whole
// stage with an EmbeddingError naming the batch; no partial result is returned.
// Every vector must have the declared dimension.
func (s *EmbedService) Embed(ctx context.Context, chunks []domain.Chunk) (*domain.EmbedReport, error) {
	logger.Section("Generate Embeddings")

	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if got := s.embedder.Dimensions(); got != s.dimensions {
		return nil, domain.NewConfigurationError("embedding.dimensions",
			"model %s produces %d dimensions, collection declares %d", s.embedder.ModelName(), got, s.dimensions)
	}

	report := &domain.EmbedReport{
		Model:      s.embedder.ModelName(),
		Dimensions: s.dimensions,
		Batches:    BatchCount(len(chunks), s.batchSize),
	}
	if len(chunks) == 0 {
		logger.Warn("No chunks to embed")
		return report, nil
	}

	run := &domain.Run{
		Stage:      domain.StageEmbed,
		Model:      report.Model,
		Dimensions: s.dimensions,
		Total:      len(chunks),
	}
	if err := s.runs.start(ctx, run); err != nil {
		return nil, err
	}
	report.RunID = run.ID

	if err := s.embedder.Ping(ctx); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		s.runs.finish(ctx, run, err)
		return nil, err
	}

	logger.Info("Embedding %d chunks with %s (%d batches of %d, %d workers)",
		len(chunks), report.Model, report.Batches, s.batchSize, s.workers)

	vectors, err := s.embedAll(ctx, chunks, run)
	s.runs.finish(ctx, run, err)
	if err != nil {
		return nil, err
	}

	embedded := slices.Clone(chunks)
	for i := range embedded {
		embedded[i].Embedding = vectors[i]
	}
	report.Chunks = embedded
	return report, nil
}

func (s *EmbedService) embedAll(ctx context.Context, chunks []domain.Chunk, run *domain.Run) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	progress := newOrderedProgress(BatchCount(len(chunks), s.batchSize), func(batch int) {
		done := min((batch+1)*s.batchSize, len(chunks))
		logger.Debug("Embedded %d/%d", done, len(chunks))
		s.runs.progress(ctx, run, done)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, batch := range Batches(chunks, s.batchSize) {
		if gctx.Err() != nil {
			break
		}
		offset := i * s.batchSize
		texts := make([]string, len(batch))
		for j := range batch {
			texts[j] = batch[j].Content
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return &domain.EmbeddingError{Batch: i, Size: len(texts), Err: err}
			}
			if len(out) != len(texts) {
				return &domain.EmbeddingError{
					Batch: i,
					Size:  len(texts),
					Err:   fmt.Errorf("got %d vectors for %d texts", len(out), len(texts)),
				}
			}
			for j, vec := range out {
				if len(vec) != s.dimensions {
					return domain.NewConfigurationError("embedding.dimensions",
						"batch %d returned a %d-dimensional vector, collection declares %d", i, len(vec), s.dimensions)
				}
				vectors[offset+j] = vec
			}
			progress.complete(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// orderedProgress reports batch completion in submission order even when
// batches finish out of order.
type orderedProgress struct {
	mu     sync.Mutex
	done   []bool
	next   int
	report func(batch int)
}

func newOrderedProgress(batches int, report func(batch int)) *orderedProgress {
	return &orderedProgress{done: make([]bool, batches), report: report}
}

func (p *orderedProgress) complete(batch int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done[batch] = true
	for p.next < len(p.done) && p.done[p.next] {
		p.report(p.next)
		p.next++
	}
}
