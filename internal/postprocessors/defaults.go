package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/postprocessors/categorizer"
	"github.com/custodia-labs/ragindex/internal/postprocessors/chunker"
	"github.com/custodia-labs/ragindex/internal/postprocessors/quality"
)

// Built-in processor names.
const (
	ChunkerName     = "chunker"
	CategorizerName = "categorizer"
	QualityName     = "quality"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(ChunkerName, buildChunker)
	r.Register(CategorizerName, buildCategorizer)
	r.Register(QualityName, buildQuality)
}

// ChunkerConfig converts window settings into chunker builder config.
func ChunkerConfig(s domain.ChunkSettings) map[string]any {
	return map[string]any{
		"chunk_size": s.Size,
		"overlap":    s.Overlap,
		"min_chars":  s.MinChars,
	}
}

// QualityConfig converts quality thresholds into quality builder config.
func QualityConfig(s domain.QualitySettings) map[string]any {
	return map[string]any{
		"min_length":      s.MinLength,
		"min_space_ratio": s.MinSpaceRatio,
		"min_alpha_ratio": s.MinAlphaRatio,
	}
}

// BuildDocumentPipeline builds the per-document stages: chunking then
// categorisation. Quality filtering runs separately so rejected chunks can
// be counted before id assignment.
func BuildDocumentPipeline(r *Registry, s domain.ChunkSettings) (*Pipeline, error) {
	chunk, err := r.Build(ChunkerName, ChunkerConfig(s))
	if err != nil {
		return nil, err
	}
	category, err := r.Build(CategorizerName, nil)
	if err != nil {
		return nil, err
	}
	return NewPipeline(chunk, category), nil
}

// BuildFilter builds the quality filter as a ChunkFilter.
func BuildFilter(r *Registry, s domain.QualitySettings) (driven.ChunkFilter, error) {
	proc, err := r.Build(QualityName, QualityConfig(s))
	if err != nil {
		return nil, err
	}
	filter, ok := proc.(driven.ChunkFilter)
	if !ok {
		return nil, fmt.Errorf("processor %s does not filter chunks", proc.Name())
	}
	return filter, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Words per window (default: 512)
//   - overlap (int): Words shared by consecutive windows (default: 50)
//   - min_chars (int): Length a window must exceed to be kept (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := intFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := intFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	if minChars, ok := intFromConfig(cfg, "min_chars"); ok {
		opts = append(opts, chunker.WithMinChars(minChars))
	}

	return chunker.New(opts...)
}

func buildCategorizer(_ map[string]any) (driven.PostProcessor, error) {
	return categorizer.New(), nil
}

// buildQuality creates a quality filter from generic config.
// Supported config keys:
//   - min_length (int): Minimum characters (default: 50)
//   - min_space_ratio (float): Minimum share of spaces (default: 0.05)
//   - min_alpha_ratio (float): Minimum share of letters (default: 0.3)
func buildQuality(cfg map[string]any) (driven.PostProcessor, error) {
	settings := quality.NewDefault().Settings()

	if v, ok := intFromConfig(cfg, "min_length"); ok {
		settings.MinLength = v
	}
	if v, ok := floatFromConfig(cfg, "min_space_ratio"); ok {
		settings.MinSpaceRatio = v
	}
	if v, ok := floatFromConfig(cfg, "min_alpha_ratio"); ok {
		settings.MinAlphaRatio = v
	}

	return quality.New(settings)
}

// intFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func intFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func floatFromConfig(cfg map[string]any, key string) (float64, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
