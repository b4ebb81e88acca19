package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "ragindex-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func loadRun(started time.Time) *domain.Run {
	return &domain.Run{
		ID:         "run-1",
		Stage:      domain.StageLoad,
		Status:     domain.RunStatusRunning,
		Collection: "telemetry_docs",
		Model:      "sentence-transformers/all-MiniLM-L6-v2",
		Dimensions: 384,
		Total:      250,
		StartedAt:  started,
		UpdatedAt:  started,
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "ledger.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var tableExists int
	err := store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "runs",
	).Scan(&tableExists)
	require.NoError(t, err)
	assert.Equal(t, 1, tableExists)

	version, err := store.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestStore_MigrationIdempotency(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.RunStore().Save(context.Background(), loadRun(time.Now())))
	require.NoError(t, store1.Close())

	// Reopen: migrations must not run again or drop data.
	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	var count int
	require.NoError(t, store2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	_, err = store2.RunStore().Get(context.Background(), "run-1")
	assert.NoError(t, err)
}

func TestStore_WALMode(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var journalMode string
	err := store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== RunStore Tests ====================

func TestRunStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	started := time.Now().UTC().Truncate(time.Millisecond)
	run := loadRun(started)
	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StageLoad, got.Stage)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
	assert.Equal(t, "telemetry_docs", got.Collection)
	assert.Equal(t, 384, got.Dimensions)
	assert.Equal(t, 250, got.Total)
	assert.Zero(t, got.Completed)
	assert.Empty(t, got.Error)
	assert.True(t, started.Equal(got.StartedAt))
}

func TestRunStore_SaveUpdatesProgress(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	run := loadRun(time.Now())
	require.NoError(t, runs.Save(ctx, run))

	run.Completed = 200
	run.Status = domain.RunStatusFailed
	run.Error = "index store upsert batch 2: unavailable"
	run.UpdatedAt = time.Now()
	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Completed)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, run.Error, got.Error)
	assert.True(t, got.Partial())

	list, err := runs.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunStore_SaveAssignsID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	run := &domain.Run{Stage: domain.StageProcess, Status: domain.RunStatusComplete}
	require.NoError(t, store.RunStore().Save(context.Background(), run))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())
	assert.Equal(t, run.StartedAt, run.UpdatedAt)
}

func TestRunStore_SaveNil(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RunStore().Save(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RunStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_Latest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	_, err := runs.Latest(ctx, domain.StageLoad)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now()
	for i, stage := range []domain.Stage{domain.StageLoad, domain.StageEmbed, domain.StageLoad, domain.StageProcess} {
		run := &domain.Run{
			ID:        fmt.Sprintf("run-%d", i),
			Stage:     stage,
			Status:    domain.RunStatusComplete,
			StartedAt: now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, runs.Save(ctx, run))
	}

	latest, err := runs.Latest(ctx, domain.StageLoad)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.ID)
}

func TestRunStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	for i := range 5 {
		require.NoError(t, runs.Save(ctx, &domain.Run{
			ID:     fmt.Sprintf("run-%d", i),
			Stage:  domain.StageEmbed,
			Status: domain.RunStatusComplete,
		}))
	}

	list, err := runs.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "run-4", list[0].ID)
	assert.Equal(t, "run-2", list[2].ID)

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRunStore_ContextCancellation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RunStore().Save(ctx, loadRun(time.Now()))
	assert.Error(t, err)
}

func TestRunStore_ConcurrentWrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	const numGoroutines = 10
	done := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			done <- runs.Save(ctx, &domain.Run{
				ID:     fmt.Sprintf("run-%d", id),
				Stage:  domain.StageEmbed,
				Status: domain.RunStatusRunning,
			})
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		assert.NoError(t, <-done)
	}

	list, err := runs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, numGoroutines)
}
