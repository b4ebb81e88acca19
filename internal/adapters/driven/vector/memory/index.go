// Package memory provides an in-process VectorIndex using brute-force cosine
// similarity. It serves tests and small corpora where no Qdrant server runs.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type collection struct {
	dimensions int
	points     map[int64]domain.IndexPoint
}

// Index is a thread-safe in-memory vector index.
type Index struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty index.
func New() *Index {
	return &Index{collections: make(map[string]*collection)}
}

// DeleteCollection drops the collection. Returns false if it did not exist.
func (i *Index) DeleteCollection(_ context.Context, name string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.collections[name]; !ok {
		return false, nil
	}
	delete(i.collections, name)
	return true, nil
}

// CreateCollection creates an empty collection.
func (i *Index) CreateCollection(_ context.Context, name string, dimensions int, distance domain.Distance) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}
	if distance != domain.DistanceCosine {
		return fmt.Errorf("%w: distance %q", domain.ErrUnsupportedType, distance)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.collections[name]; ok {
		return fmt.Errorf("collection %q already exists", name)
	}
	i.collections[name] = &collection{
		dimensions: dimensions,
		points:     make(map[int64]domain.IndexPoint),
	}
	return nil
}

// Upsert writes points, replacing any with the same id.
func (i *Index) Upsert(_ context.Context, name string, points []domain.IndexPoint) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	c, err := i.get(name)
	if err != nil {
		return err
	}
	for _, p := range points {
		if len(p.Vector) != c.dimensions {
			return fmt.Errorf("%w: point %d has %d dimensions, collection expects %d",
				domain.ErrInvalidInput, p.ID, len(p.Vector), c.dimensions)
		}
	}
	for _, p := range points {
		p.Vector = append([]float32(nil), p.Vector...)
		c.points[p.ID] = p
	}
	return nil
}

// Query scores every point and returns the best limit at or above threshold,
// ordered by score descending then id ascending.
func (i *Index) Query(
	_ context.Context, name string, vector []float32, limit int, threshold float32,
) ([]domain.QueryResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	c, err := i.get(name)
	if err != nil {
		return nil, err
	}
	if len(vector) != c.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection expects %d",
			domain.ErrInvalidInput, len(vector), c.dimensions)
	}
	if limit <= 0 {
		return nil, nil
	}

	results := make([]domain.QueryResult, 0, len(c.points))
	for _, p := range c.points {
		score := cosine(vector, p.Vector)
		if score < threshold {
			continue
		}
		results = append(results, domain.QueryResult{ID: p.ID, Score: score, Payload: p.Payload})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].ID < results[b].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (i *Index) Count(_ context.Context, name string) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	c, err := i.get(name)
	if err != nil {
		return 0, err
	}
	return len(c.points), nil
}

// Close is a no-op.
func (i *Index) Close() error {
	return nil
}

func (i *Index) get(name string) (*collection, error) {
	c, ok := i.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

// cosine returns the cosine similarity, or 0 when either vector is zero.
func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for k := range a {
		x, y := float64(a[k]), float64(b[k])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
