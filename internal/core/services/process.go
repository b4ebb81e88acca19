package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// ProcessService turns the corpus into filtered, id-stamped chunks.
type ProcessService struct {
	corpus   driven.CorpusReader
	pipeline driven.PostProcessorPipeline
	filter   driven.ChunkFilter
	chunks   driven.ChunkStore
	settings domain.CorpusSettings
	runs     ledger
}

// NewProcessService creates a new process service.
func NewProcessService(
	corpus driven.CorpusReader,
	pipeline driven.PostProcessorPipeline,
	filter driven.ChunkFilter,
	chunks driven.ChunkStore,
	settings domain.CorpusSettings,
) *ProcessService {
	return &ProcessService{
		corpus:   corpus,
		pipeline: pipeline,
		filter:   filter,
		chunks:   chunks,
		settings: settings,
	}
}

// SetRunStore sets the run ledger. Optional.
func (s *ProcessService) SetRunStore(store driven.RunStore) {
	s.runs = ledger{store: store}
}

// Process walks the corpus roots in configuration order and their files in
// lexicographic order. Every document goes through the pipeline, the quality
// filter drops weak chunks, and survivors get ids from a fresh Sequence in
// that same order, so the same corpus always yields the same ids.
//
// Unreadable documents are skipped with a warning. A missing root is skipped.
// Each root's chunks are saved to its own file and the whole run to
// domain.AllChunksFile.
func (s *ProcessService) Process(ctx context.Context) (*domain.ProcessReport, error) {
	logger.Section("Process Corpus")

	run := &domain.Run{Stage: domain.StageProcess}
	if err := s.runs.start(ctx, run); err != nil {
		return nil, err
	}

	report, err := s.process(ctx)
	if report != nil {
		run.Total = len(report.Chunks)
		report.RunID = run.ID
	}
	s.runs.finish(ctx, run, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ProcessService) process(ctx context.Context) (*domain.ProcessReport, error) {
	if len(s.settings.Roots) == 0 {
		return nil, domain.NewConfigurationError("corpus.roots", "no corpus roots configured")
	}
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}

	seq := NewSequence()
	report := &domain.ProcessReport{}

	for _, root := range s.settings.Roots {
		rootReport, chunks, err := s.processRoot(ctx, root, seq, report)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Corpus root %s not found, skipping", root.Path)
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info("Filtered %s: %d -> %d chunks", root.Path, rootReport.Produced, rootReport.Kept)
		if err := s.chunks.Save(ctx, root.OutputFile(), chunks); err != nil {
			return nil, fmt.Errorf("save %s: %w", root.OutputFile(), err)
		}

		report.Roots = append(report.Roots, *rootReport)
		report.Chunks = append(report.Chunks, chunks...)
	}

	if err := s.chunks.Save(ctx, domain.AllChunksFile, report.Chunks); err != nil {
		return nil, fmt.Errorf("save %s: %w", domain.AllChunksFile, err)
	}

	if report.Empty() {
		logger.Warn("No chunks survived filtering")
	}
	logger.Info("Total: %d chunks", len(report.Chunks))
	return report, nil
}

func (s *ProcessService) processRoot(
	ctx context.Context, root domain.CorpusRoot, seq *Sequence, report *domain.ProcessReport,
) (*domain.RootReport, []domain.Chunk, error) {
	paths, err := s.corpus.List(ctx, root.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", root.Path, err)
	}
	logger.Debug("Processing %s: %d files", root.Path, len(paths))

	rootReport := &domain.RootReport{Root: root}
	var kept []domain.Chunk

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := s.corpus.Read(ctx, path)
		if err != nil {
			var readErr *domain.InputReadError
			if !errors.As(err, &readErr) {
				return nil, nil, err
			}
			logger.Warn("Skipping %s: %v", path, readErr.Err)
			report.Skipped = append(report.Skipped, *readErr)
			rootReport.Skipped++
			continue
		}

		chunks, err := s.pipeline.Process(ctx, doc)
		if err != nil {
			return nil, nil, fmt.Errorf("process %s: %w", path, err)
		}
		rootReport.Documents++
		rootReport.Produced += len(chunks)

		survivors := s.filter.Filter(chunks)
		for i := range survivors {
			survivors[i].ID = seq.Next()
		}
		kept = append(kept, survivors...)

		if len(chunks) > 0 {
			logger.Debug("%s: %d chunks, %d kept", path, len(chunks), len(survivors))
		}
	}

	rootReport.Kept = len(kept)
	return rootReport, kept, nil
}
