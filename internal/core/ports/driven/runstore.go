package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// RunStore is the run ledger. It records each stage execution so an
// interrupted load is detectable instead of looking complete.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run *domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// Latest returns the most recent run of the given stage.
	// Returns domain.ErrNotFound if the stage never ran.
	Latest(ctx context.Context, stage domain.Stage) (*domain.Run, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}
