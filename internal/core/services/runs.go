package services

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService reads the run ledger.
type RunService struct {
	store driven.RunStore
}

// NewRunService creates a new run service. A nil store reports no runs.
func NewRunService(store driven.RunStore) *RunService {
	return &RunService{store: store}
}

// Recent returns the most recent runs, newest first.
func (s *RunService) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, limit)
}

// LastLoad returns the latest load run.
func (s *RunService) LastLoad(ctx context.Context) (*domain.Run, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Latest(ctx, domain.StageLoad)
}
