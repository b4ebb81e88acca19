package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// VectorIndex persists vectors with payload and serves nearest-neighbour queries.
// Collections are rebuilt destructively; there is no incremental update.
type VectorIndex interface {
	// DeleteCollection drops the named collection.
	// An absent collection is not an error: it returns (false, nil).
	DeleteCollection(ctx context.Context, name string) (bool, error)

	// CreateCollection creates an empty collection with the declared
	// vector dimension and distance metric.
	CreateCollection(ctx context.Context, name string, dimensions int, distance domain.Distance) error

	// Upsert writes points into the collection.
	Upsert(ctx context.Context, name string, points []domain.IndexPoint) error

	// Query returns up to limit points scoring at least threshold.
	Query(ctx context.Context, name string, vector []float32, limit int, threshold float32) ([]domain.QueryResult, error)

	// Count returns the number of points stored in the collection.
	Count(ctx context.Context, name string) (int, error)

	// Close releases resources.
	Close() error
}
