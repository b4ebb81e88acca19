package mcp

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	retrieval domain.Retrieval
	err       error

	// gotOpts records the options of the last call.
	gotOpts domain.RetrievalOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	query string,
	opts domain.RetrievalOptions,
) (domain.Retrieval, error) {
	m.gotOpts = opts
	r := m.retrieval
	r.Query = query
	return r, m.err
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs     []domain.Run
	lastLoad *domain.Run
	err      error
}

func (m *mockRunService) Recent(_ context.Context, _ int) ([]domain.Run, error) {
	return m.runs, m.err
}

func (m *mockRunService) LastLoad(_ context.Context) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.lastLoad == nil {
		return nil, domain.ErrNotFound
	}
	return m.lastLoad, nil
}
