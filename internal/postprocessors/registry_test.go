package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// passThrough is a stage that neither creates nor filters chunks.
type passThrough struct{ name string }

func (p *passThrough) Name() string { return p.name }

func (p *passThrough) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func defaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func TestRegistry_BuildPassesConfig(t *testing.T) {
	r := NewRegistry()
	r.Register("tagger", func(cfg map[string]any) (driven.PostProcessor, error) {
		name, _ := cfg["name"].(string)
		return &passThrough{name: name}, nil
	})

	proc, err := r.Build("tagger", map[string]any{"name": "custom"})

	require.NoError(t, err)
	assert.Equal(t, "custom", proc.Name())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := defaultRegistry()
	r.Register(CategorizerName, func(_ map[string]any) (driven.PostProcessor, error) {
		return &passThrough{name: "override"}, nil
	})

	proc, err := r.Build(CategorizerName, nil)

	require.NoError(t, err)
	assert.Equal(t, "override", proc.Name())
}

func TestRegistry_BuildUnknownListsRegistered(t *testing.T) {
	_, err := defaultRegistry().Build("stemmer", nil)

	require.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), `"stemmer"`)
	assert.Contains(t, err.Error(), "categorizer, chunker, quality")
}

func TestRegistry_BuildWrapsBuilderError(t *testing.T) {
	builderErr := errors.New("bad config")
	r := NewRegistry()
	r.Register("broken", func(_ map[string]any) (driven.PostProcessor, error) {
		return nil, builderErr
	})

	_, err := r.Build("broken", nil)

	require.ErrorIs(t, err, builderErr)
	assert.Contains(t, err.Error(), "building broken")
}

func TestRegisterDefaults(t *testing.T) {
	r := defaultRegistry()

	for _, name := range []string{ChunkerName, CategorizerName, QualityName} {
		proc, err := r.Build(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, proc.Name())
	}
}

func TestBuildChunker_Config(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]any
		wantErr error
	}{
		{"TOML integer types", map[string]any{"chunk_size": int64(500), "overlap": 100, "min_chars": float64(10)}, nil},
		{"nil config uses defaults", nil, nil},
		{"zero overlap", map[string]any{"chunk_size": 10, "overlap": 0}, nil},
		{"overlap exceeds size", map[string]any{"chunk_size": 10, "overlap": 12}, domain.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := defaultRegistry().Build(ChunkerName, tt.cfg)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuildChunker_FromSettings(t *testing.T) {
	proc, err := defaultRegistry().Build(ChunkerName, ChunkerConfig(domain.ChunkSettings{Size: 3, Overlap: 1}))
	require.NoError(t, err)

	chunks, err := proc.Process(context.Background(), &domain.Document{Source: "a.md", Content: "a b c d e"}, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c d e", chunks[1].Content)
}

func TestBuildFilter(t *testing.T) {
	f, err := BuildFilter(defaultRegistry(), domain.QualitySettings{MinLength: 3})
	require.NoError(t, err)

	kept := f.Filter([]domain.Chunk{{Content: "ab"}, {Content: "abc"}})

	require.Len(t, kept, 1)
	assert.Equal(t, "abc", kept[0].Content)
}

func TestBuildFilter_NotAFilter(t *testing.T) {
	r := NewRegistry()
	r.Register(QualityName, func(_ map[string]any) (driven.PostProcessor, error) {
		return &passThrough{name: QualityName}, nil
	})

	_, err := BuildFilter(r, domain.QualitySettings{})

	assert.Error(t, err)
}

func TestIntFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   map[string]any
		want  int
		found bool
	}{
		{"int", map[string]any{"size": 100}, 100, true},
		{"int64", map[string]any{"size": int64(200)}, 200, true},
		{"float64", map[string]any{"size": float64(300)}, 300, true},
		{"zero", map[string]any{"size": 0}, 0, true},
		{"string", map[string]any{"size": "400"}, 0, false},
		{"missing", map[string]any{"other": 100}, 0, false},
		{"nil config", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intFromConfig(tt.cfg, "size")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestFloatFromConfig(t *testing.T) {
	v, ok := floatFromConfig(map[string]any{"r": 1}, "r")
	assert.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	v, ok = floatFromConfig(map[string]any{"r": float32(0.25)}, "r")
	assert.True(t, ok)
	assert.InDelta(t, 0.25, v, 1e-9)

	_, ok = floatFromConfig(map[string]any{"r": "x"}, "r")
	assert.False(t, ok)
}
