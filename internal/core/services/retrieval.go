package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// queryPreviewLen bounds how much of a query is logged.
const queryPreviewLen = 60

// RetrievalService answers queries against the loaded collection.
type RetrievalService struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	collection string
	defaults   domain.RetrievalSettings
	runs       driven.RunStore
}

// NewRetrievalService creates a new retrieval service.
// The embedder must be the one the collection was built with.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	collection string,
	defaults domain.RetrievalSettings,
) *RetrievalService {
	return &RetrievalService{
		embedder:   embedder,
		index:      index,
		collection: collection,
		defaults:   defaults,
	}
}

// SetRunStore enables the embedding model check against the last load.
func (s *RetrievalService) SetRunStore(store driven.RunStore) {
	s.runs = store
}

// Defaults returns the limit and threshold used when options leave them unset.
func (s *RetrievalService) Defaults() domain.RetrievalSettings {
	return s.defaults
}

// Retrieve embeds the query, asks the index for up to Limit candidates and
// returns those scoring at least ScoreThreshold, best first.
// A Limit of zero uses the default limit. A blank query returns no results.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) (domain.Retrieval, error) {
	logger.Section("Retrieve")

	query = strings.TrimSpace(query)
	result := domain.Retrieval{Query: query}
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return result, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaults.Limit
	}
	if opts.ScoreThreshold < 0 || opts.ScoreThreshold > 1 {
		return result, fmt.Errorf("%w: score threshold %g outside [0,1]", domain.ErrInvalidInput, opts.ScoreThreshold)
	}
	logger.Debug("Query: %q, limit: %d, threshold: %.2f", preview(query, queryPreviewLen), limit, opts.ScoreThreshold)

	if s.embedder == nil {
		return result, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if err := s.checkModel(ctx); err != nil {
		return result, err
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return result, &domain.EmbeddingError{Batch: 0, Size: 1, Err: err}
	}
	if len(vector) != s.embedder.Dimensions() {
		return result, domain.NewConfigurationError("embedding.dimensions",
			"query vector has %d dimensions, model declares %d", len(vector), s.embedder.Dimensions())
	}

	hits, err := s.index.Query(ctx, s.collection, vector, limit, opts.ScoreThreshold)
	if err != nil {
		return result, domain.NewIndexStoreError("query", s.collection, err)
	}

	result.Results = Rank(hits, limit, opts.ScoreThreshold)
	logger.Debug("Returning %d of %d candidates", len(result.Results), len(hits))
	return result, nil
}

// checkModel compares the query model with the one recorded by the latest load.
func (s *RetrievalService) checkModel(ctx context.Context) error {
	if s.runs == nil {
		return nil
	}

	last, err := s.runs.Latest(ctx, domain.StageLoad)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Warn("Could not read run ledger: %v", err)
		return nil
	}
	if last.Collection != s.collection {
		return nil
	}

	if last.Partial() {
		logger.Warn("Collection %q is partially loaded (%d/%d points)", s.collection, last.Completed, last.Total)
	}
	if last.Model != "" && last.Model != s.embedder.ModelName() {
		return domain.NewConfigurationError("embedding.model",
			"collection %q was built with %s, queries would use %s", s.collection, last.Model, s.embedder.ModelName())
	}
	if last.Dimensions > 0 && last.Dimensions != s.embedder.Dimensions() {
		return domain.NewConfigurationError("embedding.dimensions",
			"collection %q holds %d-dimensional vectors, model produces %d",
			s.collection, last.Dimensions, s.embedder.Dimensions())
	}
	return nil
}

// Rank drops hits scoring below threshold, orders the rest by descending
// score with ties broken by ascending id, and keeps at most limit.
func Rank(hits []domain.QueryResult, limit int, threshold float32) []domain.QueryResult {
	ranked := make([]domain.QueryResult, 0, len(hits))
	for _, h := range hits {
		if h.Score >= threshold {
			ranked = append(ranked, h)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// preview shortens s to at most n runes for display.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
