package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestRunService_NilStore(t *testing.T) {
	svc := NewRunService(nil)

	runs, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = svc.LastLoad(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunService_Recent(t *testing.T) {
	store := newMockRunStore()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, &domain.Run{ID: id, Stage: domain.StageLoad}))
	}
	svc := NewRunService(store)

	runs, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	last, err := svc.LastLoad(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", last.ID)
}
