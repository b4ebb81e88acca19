package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Validate())
	assert.Equal(t, 512, s.Chunk.Size)
	assert.Equal(t, 50, s.Chunk.Overlap)
	assert.Equal(t, 462, s.Chunk.Stride())
	assert.Equal(t, 50, s.Quality.MinLength)
	assert.InDelta(t, 0.05, s.Quality.MinSpaceRatio, 1e-9)
	assert.InDelta(t, 0.3, s.Quality.MinAlphaRatio, 1e-9)
	assert.Equal(t, 32, s.Embedding.BatchSize)
	assert.Equal(t, 384, s.Embedding.Dimensions)
	assert.Equal(t, 100, s.Store.BatchSize)
	assert.Equal(t, DistanceCosine, s.Store.Distance)
}

func TestChunkSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chunk   ChunkSettings
		wantErr bool
	}{
		{"defaults", ChunkSettings{Size: 512, Overlap: 50, MinChars: 50}, false},
		{"zero overlap", ChunkSettings{Size: 10, Overlap: 0}, false},
		{"overlap equals size", ChunkSettings{Size: 10, Overlap: 10}, true},
		{"overlap exceeds size", ChunkSettings{Size: 10, Overlap: 15}, true},
		{"zero size", ChunkSettings{Size: 0, Overlap: 0}, true},
		{"negative overlap", ChunkSettings{Size: 10, Overlap: -1}, true},
		{"negative min chars", ChunkSettings{Size: 10, Overlap: 1, MinChars: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chunk.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfiguration))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		field  string
	}{
		{"bad overlap", func(s *Settings) { s.Chunk.Overlap = 600 }, "chunk.overlap"},
		{"bad space ratio", func(s *Settings) { s.Quality.MinSpaceRatio = 2 }, "quality.min_space_ratio"},
		{"bad alpha ratio", func(s *Settings) { s.Quality.MinAlphaRatio = -0.1 }, "quality.min_alpha_ratio"},
		{"no output dir", func(s *Settings) { s.Corpus.OutputDir = "" }, "corpus.output_dir"},
		{"zero dimensions", func(s *Settings) { s.Embedding.Dimensions = 0 }, "embedding.dimensions"},
		{"zero embed batch", func(s *Settings) { s.Embedding.BatchSize = 0 }, "embedding.batch_size"},
		{"zero workers", func(s *Settings) { s.Embedding.Workers = 0 }, "embedding.workers"},
		{"unknown provider", func(s *Settings) { s.Embedding.Provider = "anthropic" }, "embedding.provider"},
		{"no collection", func(s *Settings) { s.Store.Collection = "" }, "store.collection"},
		{"zero upsert batch", func(s *Settings) { s.Store.BatchSize = 0 }, "store.batch_size"},
		{"euclid metric", func(s *Settings) { s.Store.Distance = "euclid" }, "store.distance"},
		{"unknown store", func(s *Settings) { s.Store.Kind = "milvus" }, "store.kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)

			err := s.Validate()

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestCorpusRoot(t *testing.T) {
	t.Run("named root", func(t *testing.T) {
		r := ParseCorpusRoot("yang=data/raw-docs/public")
		assert.Equal(t, "data/raw-docs/public", r.Path)
		assert.Equal(t, "yang", r.Name)
		assert.Equal(t, "yang_chunks.json", r.OutputFile())
	})

	t.Run("bare path uses directory name", func(t *testing.T) {
		r := ParseCorpusRoot(" data/raw-docs/gnmi/ ")
		assert.Equal(t, "data/raw-docs/gnmi/", r.Path)
		assert.Equal(t, "gnmi_chunks.json", r.OutputFile())
	})
}

func TestCorpusSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		roots   []string
		wantErr bool
	}{
		{"distinct names", []string{"gnmi=docs/gnmi", "grpc=docs/grpc"}, false},
		{"distinct base names", []string{"docs/gnmi", "docs/grpc"}, false},
		{"same base name", []string{"a/docs", "b/docs"}, true},
		{"same base name disambiguated", []string{"a=a/docs", "b/docs"}, false},
		{"same explicit name", []string{"x=a", "x=b"}, true},
		{"name collides with aggregate file", []string{"all=docs/all"}, true},
		{"base name collides with aggregate file", []string{"corpus/all"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultSettings().Corpus
			for _, r := range tt.roots {
				c.Roots = append(c.Roots, ParseCorpusRoot(r))
			}

			err := c.Validate()

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
			assert.Equal(t, "corpus.roots", cfgErr.Field)
		})
	}
}

func TestSettings_Validate_DuplicateRootOutputs(t *testing.T) {
	s := DefaultSettings()
	s.Corpus.Roots = []CorpusRoot{{Path: "a/docs"}, {Path: "b/docs"}}

	err := s.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "docs_chunks.json")
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderTEI.IsValid())
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.False(t, AIProvider("anthropic").IsValid())

	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderTEI.RequiresAPIKey())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderTEI}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}.IsConfigured())
}
