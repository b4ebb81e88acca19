package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func newTestIndexService(t *testing.T, corpus *mockCorpusReader, store *mockChunkStore, index *mockVectorIndex) *IndexService {
	t.Helper()
	process := newTestProcessService(t, corpus, store, "raw/docs")
	embed := NewEmbedService(&mockEmbeddingService{}, embedSettings(4, 2))
	storeSettings, embedding := loadSettings()
	load := NewLoadService(index, storeSettings, embedding)
	return NewIndexService(process, embed, load, store)
}

func TestIndexService_Index(t *testing.T) {
	corpus := &mockCorpusReader{files: map[string]string{
		"raw/docs/a.md": prose(1500),
		"raw/docs/b.md": prose(200),
	}}
	store := newMockChunkStore()
	index := newMockVectorIndex()
	runs := newMockRunStore()
	svc := newTestIndexService(t, corpus, store, index)
	svc.SetRunStore(runs)

	report, err := svc.Index(context.Background())
	require.NoError(t, err)

	n := len(report.Process.Chunks)
	require.Positive(t, n)
	assert.Len(t, report.Embed.Chunks, n)
	assert.Equal(t, n, report.Load.Points)
	assert.Len(t, index.collections["telemetry_docs"], n)
	assert.Len(t, store.saved[domain.EmbeddedChunksFile], n)

	for _, stage := range []domain.Stage{domain.StageProcess, domain.StageEmbed, domain.StageLoad} {
		run, err := runs.Latest(context.Background(), stage)
		require.NoError(t, err, stage)
		assert.Equal(t, domain.RunStatusComplete, run.Status, stage)
	}
}

func TestIndexService_StagesThroughFiles(t *testing.T) {
	corpus := &mockCorpusReader{files: map[string]string{"raw/docs/a.md": prose(600)}}
	store := newMockChunkStore()
	index := newMockVectorIndex()
	svc := newTestIndexService(t, corpus, store, index)
	ctx := context.Background()

	processed, err := svc.Process(ctx)
	require.NoError(t, err)
	require.Len(t, processed.Chunks, 2)

	embedded, err := svc.Embed(ctx)
	require.NoError(t, err)
	assert.Len(t, embedded.Chunks, 2)

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Points)
}

func TestIndexService_StageOrder(t *testing.T) {
	svc := newTestIndexService(t, &mockCorpusReader{}, newMockChunkStore(), newMockVectorIndex())

	_, err := svc.Embed(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "run process first")

	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "run embed first")
}

func TestIndexService_EmptyCorpus(t *testing.T) {
	corpus := &mockCorpusReader{files: map[string]string{"raw/docs/a.md": "too short"}}
	index := newMockVectorIndex()
	svc := newTestIndexService(t, corpus, newMockChunkStore(), index)

	report, err := svc.Index(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Process.Empty())
	assert.True(t, report.Load.Empty())
	assert.Empty(t, index.calls)
}
