package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// RetrievalService answers nearest-neighbour queries against the index.
type RetrievalService interface {
	// Retrieve embeds the query and returns the ranked results that clear
	// the score threshold. No matching results is a valid, empty Retrieval.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) (domain.Retrieval, error)
}
