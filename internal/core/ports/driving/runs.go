package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// RunService exposes the run ledger.
type RunService interface {
	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Run, error)

	// LastLoad returns the latest load run.
	// Returns domain.ErrNotFound if nothing was ever loaded.
	LastLoad(ctx context.Context) (*domain.Run, error)
}
