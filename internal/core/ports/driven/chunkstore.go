package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// ChunkStore persists chunk collections between pipeline stages.
type ChunkStore interface {
	// Save writes the chunks under the given name, replacing any previous content.
	Save(ctx context.Context, name string, chunks []domain.Chunk) error

	// Load reads the chunks saved under name.
	// Returns domain.ErrNotFound if nothing was saved.
	Load(ctx context.Context, name string) ([]domain.Chunk, error)

	// Path returns where the named collection is stored.
	Path(name string) string
}
