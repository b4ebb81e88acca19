package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// LoadService rebuilds the vector collection from embedded chunks.
type LoadService struct {
	index      driven.VectorIndex
	settings   domain.StoreSettings
	dimensions int
	model      string
	runs       ledger
}

// NewLoadService creates a new load service.
// The model name is recorded with each load so queries can be checked
// against the model the collection was built with.
func NewLoadService(index driven.VectorIndex, settings domain.StoreSettings, embedding domain.EmbeddingSettings) *LoadService {
	return &LoadService{
		index:      index,
		settings:   settings,
		dimensions: embedding.Dimensions,
		model:      embedding.Model,
	}
}

// SetRunStore sets the run ledger. Optional.
func (s *LoadService) SetRunStore(store driven.RunStore) {
	s.runs = ledger{store: store}
}

// Load deletes any existing collection, creates a fresh one and upserts the
// chunks in fixed-size batches.
//
// Every chunk must carry an id and an embedding of the declared dimension;
// otherwise a ConfigurationError is returned before the index is touched.
// An empty input leaves the existing collection untouched. Cancellation is
// honoured between batches; the run is then recorded as failed with the
// number of points written, so a partial collection never looks complete.
func (s *LoadService) Load(ctx context.Context, chunks []domain.Chunk) (*domain.LoadReport, error) {
	logger.Section("Load Collection")

	collection := s.settings.Collection
	report := &domain.LoadReport{Collection: collection}

	if len(chunks) == 0 {
		logger.Warn("No chunks to load, collection %q left unchanged", collection)
		return report, nil
	}
	if err := s.precheck(chunks); err != nil {
		return nil, err
	}

	run := &domain.Run{
		Stage:      domain.StageLoad,
		Collection: collection,
		Model:      s.model,
		Dimensions: s.dimensions,
		Total:      len(chunks),
	}
	if err := s.runs.start(ctx, run); err != nil {
		return nil, err
	}
	report.RunID = run.ID

	err := s.rebuild(ctx, chunks, run, report)
	s.runs.finish(ctx, run, err)
	if err != nil {
		return nil, err
	}

	logger.Info("Indexed %d chunks into %q", report.Points, collection)
	return report, nil
}

func (s *LoadService) precheck(chunks []domain.Chunk) error {
	seen := make(map[int64]struct{}, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		if !c.HasID() {
			return domain.NewConfigurationError("chunk.id", "chunk %d from %s has no id", i, c.Source)
		}
		if _, dup := seen[c.ID]; dup {
			return domain.NewConfigurationError("chunk.id", "duplicate chunk id %d", c.ID)
		}
		seen[c.ID] = struct{}{}

		if !c.HasEmbedding() {
			return domain.NewConfigurationError("chunk.embedding", "chunk %d has no embedding", c.ID)
		}
		if len(c.Embedding) != s.dimensions {
			return domain.NewConfigurationError("embedding.dimensions",
				"chunk %d has %d dimensions, collection declares %d", c.ID, len(c.Embedding), s.dimensions)
		}
	}
	return nil
}

func (s *LoadService) rebuild(ctx context.Context, chunks []domain.Chunk, run *domain.Run, report *domain.LoadReport) error {
	collection := s.settings.Collection

	deleted, err := s.index.DeleteCollection(ctx, collection)
	if err != nil {
		return domain.NewIndexStoreError("delete", collection, err)
	}
	report.Deleted = deleted
	if deleted {
		logger.Info("Deleted existing collection %q", collection)
	}

	if err := s.index.CreateCollection(ctx, collection, s.dimensions, s.settings.Distance); err != nil {
		return domain.NewIndexStoreError("create", collection, err)
	}
	logger.Debug("Created collection %q (%d dimensions, %s)", collection, s.dimensions, s.settings.Distance)

	for i, batch := range Batches(chunks, s.settings.BatchSize) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: aborted after %d of %d points: %w",
				domain.ErrPartialLoad, report.Points, len(chunks), err)
		}

		points := make([]domain.IndexPoint, len(batch))
		for j := range batch {
			points[j] = batch[j].Point()
		}
		if err := s.index.Upsert(ctx, collection, points); err != nil {
			return &domain.IndexStoreError{Op: "upsert", Collection: collection, Batch: i, Err: err}
		}

		report.Batches++
		report.Points += len(points)
		s.runs.progress(ctx, run, report.Points)
		logger.Debugw("Upserted batch", "batch", i, "points", len(points), "total", report.Points)
	}

	count, err := s.index.Count(ctx, collection)
	if err != nil {
		return domain.NewIndexStoreError("count", collection, err)
	}
	if count != len(chunks) {
		return domain.NewIndexStoreError("verify", collection,
			fmt.Errorf("%w: collection holds %d points, expected %d", domain.ErrPartialLoad, count, len(chunks)))
	}
	logger.Debug("Collection %q holds %d points", collection, count)
	return nil
}
