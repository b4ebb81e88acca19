package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService chains the pipeline stages through the interchange files.
type IndexService struct {
	process *ProcessService
	embed   *EmbedService
	load    *LoadService
	chunks  driven.ChunkStore
}

// NewIndexService creates a new index service.
func NewIndexService(process *ProcessService, embed *EmbedService, load *LoadService, chunks driven.ChunkStore) *IndexService {
	return &IndexService{
		process: process,
		embed:   embed,
		load:    load,
		chunks:  chunks,
	}
}

// SetRunStore sets the run ledger on every stage. Optional.
func (s *IndexService) SetRunStore(store driven.RunStore) {
	s.process.SetRunStore(store)
	s.embed.SetRunStore(store)
	s.load.SetRunStore(store)
}

// Process runs the process stage.
func (s *IndexService) Process(ctx context.Context) (*domain.ProcessReport, error) {
	return s.process.Process(ctx)
}

// Embed embeds the chunks saved by the last process run and saves the result.
func (s *IndexService) Embed(ctx context.Context) (*domain.EmbedReport, error) {
	chunks, err := s.loadStage(ctx, domain.AllChunksFile, "process")
	if err != nil {
		return nil, err
	}
	return s.embedAndSave(ctx, chunks)
}

// Load loads the chunks saved by the last embed run.
func (s *IndexService) Load(ctx context.Context) (*domain.LoadReport, error) {
	chunks, err := s.loadStage(ctx, domain.EmbeddedChunksFile, "embed")
	if err != nil {
		return nil, err
	}
	return s.load.Load(ctx, chunks)
}

// Index runs process, embed and load back to back.
func (s *IndexService) Index(ctx context.Context) (*domain.IndexReport, error) {
	processed, err := s.process.Process(ctx)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	embedded, err := s.embedAndSave(ctx, processed.Chunks)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	loaded, err := s.load.Load(ctx, embedded.Chunks)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return &domain.IndexReport{Process: *processed, Embed: *embedded, Load: *loaded}, nil
}

func (s *IndexService) embedAndSave(ctx context.Context, chunks []domain.Chunk) (*domain.EmbedReport, error) {
	report, err := s.embed.Embed(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if err := s.chunks.Save(ctx, domain.EmbeddedChunksFile, report.Chunks); err != nil {
		return nil, fmt.Errorf("save %s: %w", domain.EmbeddedChunksFile, err)
	}
	return report, nil
}

func (s *IndexService) loadStage(ctx context.Context, name, previous string) ([]domain.Chunk, error) {
	chunks, err := s.chunks.Load(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%s not found, run %s first: %w", s.chunks.Path(name), previous, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return chunks, nil
}
