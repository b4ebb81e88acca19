package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// IndexService runs the batch pipeline stages.
// Each stage reads the previous stage's interchange file so stages can be
// run separately; Index runs all three in one pass.
type IndexService interface {
	// Process chunks, categorises and filters the corpus, assigns ids and
	// writes the interchange files.
	Process(ctx context.Context) (*domain.ProcessReport, error)

	// Embed adds embeddings to the processed chunks.
	Embed(ctx context.Context) (*domain.EmbedReport, error)

	// Load rebuilds the collection from the embedded chunks.
	Load(ctx context.Context) (*domain.LoadReport, error)

	// Index runs process, embed and load back to back.
	Index(ctx context.Context) (*domain.IndexReport, error)
}
