// Package tui provides an interactive terminal user interface for ragindex.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries against the collection.
	Retrieval driving.RetrievalService

	// Runs exposes the run ledger. Optional.
	Runs driving.RunService

	// Defaults are the limit and threshold used for every query.
	Defaults domain.RetrievalSettings

	// Collection is shown in the menu.
	Collection string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retrieval driving.RetrievalService, runs driving.RunService) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Runs:      runs,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Defaults.ScoreThreshold < 0 || p.Defaults.ScoreThreshold > 1 {
		return fmt.Errorf("%w: score threshold %g outside [0,1]", ErrInvalidPorts, p.Defaults.ScoreThreshold)
	}
	return nil
}

// Options returns the retrieval options derived from the defaults.
func (p *Ports) Options() domain.RetrievalOptions {
	return domain.RetrievalOptions{
		Limit:          p.Defaults.Limit,
		ScoreThreshold: p.Defaults.ScoreThreshold,
	}
}
