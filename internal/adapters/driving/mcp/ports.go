package mcp

import (
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries against the collection.
	Retrieval driving.RetrievalService

	// Runs exposes the run ledger. Optional.
	Runs driving.RunService

	// Defaults fill in options a tool call leaves unset.
	Defaults domain.RetrievalSettings
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
