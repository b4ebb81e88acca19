package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// ledger records stage runs in an optional RunStore.
// With a nil store runs still get ids but nothing is persisted.
type ledger struct {
	store driven.RunStore
}

// start marks the run as running and persists it.
// Failing to record the start is fatal so a load never runs unrecorded.
func (l ledger) start(ctx context.Context, run *domain.Run) error {
	now := time.Now().UTC()
	run.ID = uuid.NewString()
	run.Status = domain.RunStatusRunning
	run.StartedAt = now
	run.UpdatedAt = now

	if l.store == nil {
		return nil
	}
	if err := l.store.Save(ctx, run); err != nil {
		return fmt.Errorf("record %s run: %w", run.Stage, err)
	}
	return nil
}

// progress records how many items the run has completed.
func (l ledger) progress(ctx context.Context, run *domain.Run, completed int) {
	run.Completed = completed
	run.UpdatedAt = time.Now().UTC()

	if l.store == nil {
		return
	}
	if err := l.store.Save(ctx, run); err != nil {
		logger.Warn("Failed to record %s progress: %v", run.Stage, err)
	}
}

// finish marks the run complete, or failed when err is non-nil.
// It is recorded even if ctx was cancelled.
func (l ledger) finish(ctx context.Context, run *domain.Run, err error) {
	run.UpdatedAt = time.Now().UTC()
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = domain.RunStatusComplete
		run.Completed = run.Total
	}

	if l.store == nil {
		return
	}
	if saveErr := l.store.Save(context.WithoutCancel(ctx), run); saveErr != nil {
		logger.Warn("Failed to record %s result: %v", run.Stage, saveErr)
	}
}
