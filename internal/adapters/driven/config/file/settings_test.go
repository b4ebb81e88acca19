package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

const sampleConfig = `
data_dir = "/var/lib/ragindex"

[corpus]
roots = ["grpc=data/raw/grpc/doc", "gnmi=data/raw/gnmi", "yang=data/raw/public"]
extensions = [".md", ".txt"]
output_dir = "out"

[chunk]
size = 256
overlap = 32
min_chars = 40

[quality]
min_length = 60
min_space_ratio = 0.1
min_alpha_ratio = 0.5

[embedding]
provider = "Ollama"
model = "all-minilm"
dimensions = 384
batch_size = 16
workers = 4
requests_per_second = 10
timeout = "45s"

[store]
kind = "memory"
collection = "docs"
batch_size = 50

[retrieval]
limit = 8
score_threshold = 0.25
`

func storeWith(t *testing.T, content string, env map[string]string) *ConfigStore {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	store.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return store
}

func TestSettings_Defaults(t *testing.T) {
	store := storeWith(t, "", nil)

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettings_FromFile(t *testing.T) {
	store := storeWith(t, sampleConfig, nil)

	settings, err := store.Settings()
	require.NoError(t, err)

	assert.Equal(t, []domain.CorpusRoot{
		{Name: "grpc", Path: "data/raw/grpc/doc"},
		{Name: "gnmi", Path: "data/raw/gnmi"},
		{Name: "yang", Path: "data/raw/public"},
	}, settings.Corpus.Roots)
	assert.Equal(t, []string{".md", ".txt"}, settings.Corpus.Extensions)
	assert.Equal(t, "out", settings.Corpus.OutputDir)

	assert.Equal(t, domain.ChunkSettings{Size: 256, Overlap: 32, MinChars: 40}, settings.Chunk)
	assert.Equal(t, 60, settings.Quality.MinLength)
	assert.InDelta(t, 0.1, settings.Quality.MinSpaceRatio, 1e-9)
	assert.InDelta(t, 0.5, settings.Quality.MinAlphaRatio, 1e-9)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.Embedding.Model)
	assert.Equal(t, 16, settings.Embedding.BatchSize)
	assert.Equal(t, 4, settings.Embedding.Workers)
	assert.InDelta(t, 10.0, settings.Embedding.RequestsPerSecond, 1e-9)
	assert.Equal(t, 45*time.Second, settings.Embedding.Timeout)

	assert.Equal(t, domain.StoreMemory, settings.Store.Kind)
	assert.Equal(t, "docs", settings.Store.Collection)
	assert.Equal(t, 50, settings.Store.BatchSize)
	assert.Equal(t, domain.DefaultQdrantPort, settings.Store.Port)

	assert.Equal(t, 8, settings.Retrieval.Limit)
	assert.InDelta(t, 0.25, settings.Retrieval.ScoreThreshold, 1e-6)
	assert.Equal(t, "/var/lib/ragindex", settings.DataDir)
}

func TestSettings_EnvOverrides(t *testing.T) {
	store := storeWith(t, "[embedding]\nprovider = \"openai\"\n", map[string]string{
		EnvQdrantHost:   "qdrant.internal",
		EnvQdrantPort:   "7334",
		EnvOpenAIAPIKey: "sk-test",
		EnvEmbeddingURL: " ",
	})

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "qdrant.internal", settings.Store.Host)
	assert.Equal(t, 7334, settings.Store.Port)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)
}

func TestSettings_FileAPIKeyWinsOverEnv(t *testing.T) {
	store := storeWith(t, "[embedding]\napi_key = \"from-file\"\n", map[string]string{
		EnvOpenAIAPIKey: "from-env",
	})

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "from-file", settings.Embedding.APIKey)
}

func TestSettings_InvalidPortEnv(t *testing.T) {
	store := storeWith(t, "", map[string]string{EnvQdrantPort: "not-a-port"})

	_, err := store.Settings()
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, EnvQdrantPort, cfgErr.Field)
}

func TestSettings_WrongType(t *testing.T) {
	tests := []struct {
		name  string
		toml  string
		field string
	}{
		{"string for int", "[chunk]\nsize = \"big\"\n", KeyChunkSize},
		{"int for string", "[store]\ncollection = 3\n", KeyStoreCollection},
		{"bool for float", "[retrieval]\nscore_threshold = true\n", KeyRetrievalThreshold},
		{"bad duration", "[embedding]\ntimeout = \"soon\"\n", KeyEmbeddingTimeout},
		{"number for list", "[corpus]\nroots = 5\n", KeyCorpusRoots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storeWith(t, tt.toml, nil).Settings()

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestSettings_Validated(t *testing.T) {
	_, err := storeWith(t, "[chunk]\nsize = 50\noverlap = 50\n", nil).Settings()

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "chunk.overlap", cfgErr.Field)
}

func TestSettings_IntegerTimeoutAndCommaRoots(t *testing.T) {
	store := storeWith(t, "", nil)
	require.NoError(t, store.Set(KeyEmbeddingTimeout, int64(10)))
	require.NoError(t, store.Set(KeyCorpusRoots, "a=docs/a, docs/b"))

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, settings.Embedding.Timeout)
	assert.Equal(t, []domain.CorpusRoot{{Name: "a", Path: "docs/a"}, {Path: "docs/b"}}, settings.Corpus.Roots)
}
