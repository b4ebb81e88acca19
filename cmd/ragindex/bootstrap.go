package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/sqlite"
	memoryindex "github.com/custodia-labs/ragindex/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragindex/internal/connectors/filesystem"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/services"
	"github.com/custodia-labs/ragindex/internal/logger"
	"github.com/custodia-labs/ragindex/internal/postprocessors"
)

// settingsSource is implemented by config stores that resolve typed settings.
type settingsSource interface {
	Settings() (domain.Settings, error)
}

// bootstrap wires the adapters behind the CLI's driving ports.
type bootstrap struct {
	// configDir is the directory of the opened config file. The run ledger
	// lives under its data directory unless data_dir is set.
	configDir string
}

var _ cli.Bootstrap = (*bootstrap)(nil)

func newBootstrap() *bootstrap {
	return &bootstrap{}
}

// Config opens the TOML config file at path, or ~/.ragindex/config.toml.
func (b *bootstrap) Config(path string) (driven.ConfigStore, error) {
	var (
		store *file.ConfigStore
		err   error
	)
	if path == "" {
		store, err = file.NewConfigStore("")
	} else {
		store, err = file.NewConfigStoreAt(path)
	}
	if err != nil {
		return nil, err
	}
	b.configDir = filepath.Dir(store.Path())
	return store, nil
}

// Settings resolves the effective settings from store.
func (b *bootstrap) Settings(store driven.ConfigStore) (domain.Settings, error) {
	source, ok := store.(settingsSource)
	if !ok {
		return domain.Settings{}, fmt.Errorf("%w: config store %T cannot resolve settings", domain.ErrUnsupportedType, store)
	}
	settings, err := source.Settings()
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.DataDir == "" {
		settings.DataDir = filepath.Join(b.configDir, "data")
	}
	return settings, nil
}

// Services builds every adapter for settings and the services over them.
// Stores opened here are released by the returned Close.
func (b *bootstrap) Services(ctx context.Context, settings domain.Settings) (*cli.Services, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("creating embedding service: %w", err)
	}
	if embedder == nil {
		logger.Warn("Embedding provider %q is not configured; embed and query will fail", settings.Embedding.Provider)
	} else {
		closers = append(closers, embedder.Close)
	}

	index, err := newVectorIndex(settings.Store)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	closers = append(closers, index.Close)

	runs, closeRuns := openRunStore(settings.DataDir)
	closers = append(closers, closeRuns)

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildDocumentPipeline(registry, settings.Chunk)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	logger.Debug("Document pipeline: %s", strings.Join(pipeline.Stages(), " -> "))
	filter, err := postprocessors.BuildFilter(registry, settings.Quality)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("building quality filter: %w", err)
	}

	chunks := jsonfile.NewChunkStore(settings.Corpus.OutputDir)
	reader := filesystem.New(settings.Corpus.Extensions...)

	process := services.NewProcessService(reader, pipeline, filter, chunks, settings.Corpus)
	embed := services.NewEmbedService(embedder, settings.Embedding)
	load := services.NewLoadService(index, settings.Store, settings.Embedding)
	indexService := services.NewIndexService(process, embed, load, chunks)
	indexService.SetRunStore(runs)

	if settings.Store.Kind == domain.StoreMemory {
		preload(ctx, services.NewLoadService(index, settings.Store, settings.Embedding), chunks)
	}

	retrieval := services.NewRetrievalService(embedder, index, settings.Store.Collection, settings.Retrieval)
	retrieval.SetRunStore(runs)

	return &cli.Services{
		Index:     indexService,
		Retrieval: retrieval,
		Runs:      services.NewRunService(runs),
		Settings:  settings,
		Close:     closeAll,
	}, nil
}

func newVectorIndex(settings domain.StoreSettings) (driven.VectorIndex, error) {
	switch settings.Kind {
	case domain.StoreMemory:
		return memoryindex.New(), nil
	case domain.StoreQdrant, "":
		return qdrant.New(qdrant.Config{
			Host:   settings.Host,
			Port:   settings.Port,
			APIKey: settings.APIKey,
		})
	default:
		return nil, fmt.Errorf("%w: store kind %q", domain.ErrUnsupportedType, settings.Kind)
	}
}

// openRunStore opens the sqlite run ledger in dataDir. When the database
// cannot be opened runs are kept in memory for this invocation only.
func openRunStore(dataDir string) (driven.RunStore, func() error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("Run ledger unavailable, runs will not be recorded: %v", err)
		return memory.NewRunStore(), func() error { return nil }
	}
	logger.Debug("Run ledger at %s", store.Path())
	return store.RunStore(), store.Close
}

// preload fills an in-memory collection from the last embedding output so
// queries work without a running vector server.
func preload(ctx context.Context, load *services.LoadService, chunks driven.ChunkStore) {
	embedded, err := chunks.Load(ctx, domain.EmbeddedChunksFile)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No %s to preload", chunks.Path(domain.EmbeddedChunksFile))
		return
	}
	if err != nil {
		logger.Warn("Reading %s: %v", domain.EmbeddedChunksFile, err)
		return
	}
	if _, err := load.Load(ctx, embedded); err != nil {
		logger.Warn("Preloading in-memory collection: %v", err)
	}
}
