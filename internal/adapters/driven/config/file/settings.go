package file

import (
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Configuration keys.
const (
	KeyCorpusRoots      = "corpus.roots"
	KeyCorpusExtensions = "corpus.extensions"
	KeyCorpusOutputDir  = "corpus.output_dir"

	KeyChunkSize     = "chunk.size"
	KeyChunkOverlap  = "chunk.overlap"
	KeyChunkMinChars = "chunk.min_chars"

	KeyQualityMinLength     = "quality.min_length"
	KeyQualityMinSpaceRatio = "quality.min_space_ratio"
	KeyQualityMinAlphaRatio = "quality.min_alpha_ratio"

	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"
	KeyEmbeddingBatchSize  = "embedding.batch_size"
	KeyEmbeddingWorkers    = "embedding.workers"
	KeyEmbeddingRate       = "embedding.requests_per_second"
	KeyEmbeddingTimeout    = "embedding.timeout"

	KeyStoreKind       = "store.kind"
	KeyStoreHost       = "store.host"
	KeyStorePort       = "store.port"
	KeyStoreAPIKey     = "store.api_key"
	KeyStoreCollection = "store.collection"
	KeyStoreDistance   = "store.distance"
	KeyStoreBatchSize  = "store.batch_size"

	KeyRetrievalLimit     = "retrieval.limit"
	KeyRetrievalThreshold = "retrieval.score_threshold"

	KeyDataDir = "data_dir"
)

// Environment overrides, applied after the file.
const (
	EnvQdrantHost   = "RAGINDEX_QDRANT_HOST"
	EnvQdrantPort   = "RAGINDEX_QDRANT_PORT"
	EnvQdrantAPIKey = "RAGINDEX_QDRANT_API_KEY"
	EnvEmbeddingURL = "RAGINDEX_EMBEDDING_URL"
	EnvOpenAIAPIKey = "RAGINDEX_OPENAI_API_KEY"
)

// Settings builds typed settings from the defaults, the file and the
// environment, in that order of precedence. A value of the wrong type is
// reported as a ConfigurationError naming its key. The result is validated.
func (s *ConfigStore) Settings() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	r := reader{store: s}

	if roots, ok := r.list(KeyCorpusRoots); ok {
		settings.Corpus.Roots = make([]domain.CorpusRoot, 0, len(roots))
		for _, root := range roots {
			settings.Corpus.Roots = append(settings.Corpus.Roots, domain.ParseCorpusRoot(root))
		}
	}
	if exts, ok := r.list(KeyCorpusExtensions); ok {
		settings.Corpus.Extensions = exts
	}
	r.str(KeyCorpusOutputDir, &settings.Corpus.OutputDir)

	r.integer(KeyChunkSize, &settings.Chunk.Size)
	r.integer(KeyChunkOverlap, &settings.Chunk.Overlap)
	r.integer(KeyChunkMinChars, &settings.Chunk.MinChars)

	r.integer(KeyQualityMinLength, &settings.Quality.MinLength)
	r.number(KeyQualityMinSpaceRatio, &settings.Quality.MinSpaceRatio)
	r.number(KeyQualityMinAlphaRatio, &settings.Quality.MinAlphaRatio)

	var provider string
	if r.str(KeyEmbeddingProvider, &provider) {
		settings.Embedding.Provider = domain.AIProvider(strings.ToLower(provider))
	}
	r.str(KeyEmbeddingModel, &settings.Embedding.Model)
	r.str(KeyEmbeddingBaseURL, &settings.Embedding.BaseURL)
	r.str(KeyEmbeddingAPIKey, &settings.Embedding.APIKey)
	r.integer(KeyEmbeddingDimensions, &settings.Embedding.Dimensions)
	r.integer(KeyEmbeddingBatchSize, &settings.Embedding.BatchSize)
	r.integer(KeyEmbeddingWorkers, &settings.Embedding.Workers)
	r.number(KeyEmbeddingRate, &settings.Embedding.RequestsPerSecond)
	r.duration(KeyEmbeddingTimeout, &settings.Embedding.Timeout)

	var kind, distance string
	if r.str(KeyStoreKind, &kind) {
		settings.Store.Kind = domain.StoreKind(strings.ToLower(kind))
	}
	r.str(KeyStoreHost, &settings.Store.Host)
	r.integer(KeyStorePort, &settings.Store.Port)
	r.str(KeyStoreAPIKey, &settings.Store.APIKey)
	r.str(KeyStoreCollection, &settings.Store.Collection)
	if r.str(KeyStoreDistance, &distance) {
		settings.Store.Distance = domain.Distance(strings.ToLower(distance))
	}
	r.integer(KeyStoreBatchSize, &settings.Store.BatchSize)

	r.integer(KeyRetrievalLimit, &settings.Retrieval.Limit)
	var threshold float64
	if r.number(KeyRetrievalThreshold, &threshold) {
		settings.Retrieval.ScoreThreshold = float32(threshold)
	}

	r.str(KeyDataDir, &settings.DataDir)

	if r.err != nil {
		return domain.Settings{}, r.err
	}
	if err := s.applyEnv(&settings); err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *ConfigStore) applyEnv(settings *domain.Settings) error {
	if v, ok := s.env(EnvQdrantHost); ok {
		settings.Store.Host = v
	}
	if v, ok := s.env(EnvQdrantPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return domain.NewConfigurationError(EnvQdrantPort, "invalid port %q", v)
		}
		settings.Store.Port = port
	}
	if v, ok := s.env(EnvQdrantAPIKey); ok {
		settings.Store.APIKey = v
	}
	if v, ok := s.env(EnvEmbeddingURL); ok {
		settings.Embedding.BaseURL = v
	}
	if v, ok := s.env(EnvOpenAIAPIKey); ok && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = v
	}
	return nil
}

func (s *ConfigStore) env(key string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// reader copies present keys into typed fields and keeps the first type error.
type reader struct {
	store *ConfigStore
	err   error
}

func (r *reader) fail(key, format string, args ...any) {
	if r.err == nil {
		r.err = domain.NewConfigurationError(key, format, args...)
	}
}

func (r *reader) str(key string, dst *string) bool {
	val, ok := r.store.Get(key)
	if !ok {
		return false
	}
	str, ok := val.(string)
	if !ok {
		r.fail(key, "expected a string, got %T", val)
		return false
	}
	*dst = strings.TrimSpace(str)
	return true
}

func (r *reader) integer(key string, dst *int) bool {
	val, ok := r.store.Get(key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case int64:
		*dst = int(v)
	case int:
		*dst = v
	default:
		r.fail(key, "expected an integer, got %T", val)
		return false
	}
	return true
}

func (r *reader) number(key string, dst *float64) bool {
	val, ok := r.store.Get(key)
	if !ok {
		return false
	}
	switch val.(type) {
	case float64, float32, int64, int:
		*dst = r.store.GetFloat(key)
		return true
	default:
		r.fail(key, "expected a number, got %T", val)
		return false
	}
}

func (r *reader) list(key string) ([]string, bool) {
	val, ok := r.store.Get(key)
	if !ok {
		return nil, false
	}
	if str, isString := val.(string); isString {
		return splitList(str), true
	}
	list := r.store.GetStringSlice(key)
	if list == nil {
		r.fail(key, "expected a list of strings, got %T", val)
		return nil, false
	}
	return list, true
}

// duration accepts Go duration strings ("30s") or whole seconds.
func (r *reader) duration(key string, dst *time.Duration) bool {
	val, ok := r.store.Get(key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			r.fail(key, "invalid duration %q", v)
			return false
		}
		*dst = d
	case int64:
		*dst = time.Duration(v) * time.Second
	case int:
		*dst = time.Duration(v) * time.Second
	default:
		r.fail(key, "expected a duration, got %T", val)
		return false
	}
	return true
}

// splitList splits a comma separated value, as written by "config set".
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
