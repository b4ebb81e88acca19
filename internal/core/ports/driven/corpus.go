package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// CorpusReader enumerates and reads corpus documents.
type CorpusReader interface {
	// List returns the document paths under root in lexicographic order.
	// The order is part of the contract: id assignment depends on it.
	List(ctx context.Context, root string) ([]string, error)

	// Read loads and decodes one document.
	Read(ctx context.Context, path string) (*domain.Document, error)
}
