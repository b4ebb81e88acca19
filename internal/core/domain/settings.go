package domain

import (
	"path/filepath"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// Default pipeline parameters.
const (
	DefaultChunkSize         = 512
	DefaultChunkOverlap      = 50
	DefaultMinChunkChars     = 50
	DefaultMinLength         = 50
	DefaultMinSpaceRatio     = 0.05
	DefaultMinAlphaRatio     = 0.3
	DefaultEmbedBatchSize    = 32
	DefaultEmbedWorkers      = 1
	DefaultUpsertBatchSize   = 100
	DefaultDimensions        = 384
	DefaultCollection        = "telemetry_docs"
	DefaultQdrantHost        = "localhost"
	DefaultQdrantPort        = 6334
	DefaultRetrievalLimit    = 5
	DefaultScoreThreshold    = 0.3
	DefaultEmbeddingTimeout  = 30 * time.Second
	DefaultEmbeddingProvider = AIProviderTEI
)

// Interchange file names written between stages.
const (
	AllChunksFile      = "all_chunks.json"
	EmbeddedChunksFile = "chunks_with_embeddings.json"
)

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderTEI is a text-embeddings-inference style HTTP endpoint.
	AIProviderTEI AIProvider = "tei"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderTEI, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderTEI:
		return "Embedding server (local)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// Distance is the similarity metric declared on a collection.
type Distance string

// DistanceCosine is the default and only specified metric.
const DistanceCosine Distance = "cosine"

// StoreKind selects the vector index implementation.
type StoreKind string

// Available store kinds.
const (
	StoreQdrant StoreKind = "qdrant"
	StoreMemory StoreKind = "memory"
)

// CorpusRoot is one directory of the corpus and the interchange file it produces.
type CorpusRoot struct {
	Path string

	// Name prefixes the per-root interchange file (<name>_chunks.json).
	Name string
}

// OutputFile returns the per-root interchange file name.
func (r CorpusRoot) OutputFile() string {
	name := r.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(r.Path))
	}
	return name + "_chunks.json"
}

// ParseCorpusRoot parses "name=path" or a bare path.
func ParseCorpusRoot(s string) CorpusRoot {
	s = strings.TrimSpace(s)
	if name, path, ok := strings.Cut(s, "="); ok {
		return CorpusRoot{Path: strings.TrimSpace(path), Name: strings.TrimSpace(name)}
	}
	return CorpusRoot{Path: s}
}

// CorpusSettings describes where documents are read from and written to.
type CorpusSettings struct {
	Roots      []CorpusRoot
	Extensions []string
	OutputDir  string
}

// ChunkSettings configures the word window.
type ChunkSettings struct {
	Size     int
	Overlap  int
	MinChars int
}

// Stride returns the distance between consecutive window starts.
func (c ChunkSettings) Stride() int {
	return c.Size - c.Overlap
}

// QualitySettings holds the chunk rejection thresholds.
type QualitySettings struct {
	MinLength     int
	MinSpaceRatio float64
	MinAlphaRatio float64
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the declared output dimension D.
	Dimensions int

	BatchSize int
	Workers   int

	// RequestsPerSecond throttles calls to the provider; zero disables it.
	RequestsPerSecond float64

	Timeout time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings configures the vector index.
type StoreSettings struct {
	Kind       StoreKind
	Host       string
	Port       int
	APIKey     string
	Collection string
	Distance   Distance
	BatchSize  int
}

// RetrievalSettings holds query defaults.
type RetrievalSettings struct {
	Limit          int
	ScoreThreshold float32
}

// Settings is the complete externally configurable surface.
type Settings struct {
	Corpus    CorpusSettings
	Chunk     ChunkSettings
	Quality   QualitySettings
	Embedding EmbeddingSettings
	Store     StoreSettings
	Retrieval RetrievalSettings

	// DataDir holds the run ledger database.
	DataDir string
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() Settings {
	return Settings{
		Corpus: CorpusSettings{
			Extensions: []string{".md"},
			OutputDir:  filepath.Join("data", "processed"),
		},
		Chunk: ChunkSettings{
			Size:     DefaultChunkSize,
			Overlap:  DefaultChunkOverlap,
			MinChars: DefaultMinChunkChars,
		},
		Quality: QualitySettings{
			MinLength:     DefaultMinLength,
			MinSpaceRatio: DefaultMinSpaceRatio,
			MinAlphaRatio: DefaultMinAlphaRatio,
		},
		Embedding: EmbeddingSettings{
			Provider:   DefaultEmbeddingProvider,
			Model:      "sentence-transformers/all-MiniLM-L6-v2",
			Dimensions: DefaultDimensions,
			BatchSize:  DefaultEmbedBatchSize,
			Workers:    DefaultEmbedWorkers,
			Timeout:    DefaultEmbeddingTimeout,
		},
		Store: StoreSettings{
			Kind:       StoreQdrant,
			Host:       DefaultQdrantHost,
			Port:       DefaultQdrantPort,
			Collection: DefaultCollection,
			Distance:   DistanceCosine,
			BatchSize:  DefaultUpsertBatchSize,
		},
		Retrieval: RetrievalSettings{
			Limit:          DefaultRetrievalLimit,
			ScoreThreshold: DefaultScoreThreshold,
		},
	}
}

// Validate checks every setting a stage depends on. The first violation is
// returned as a ConfigurationError.
func (s Settings) Validate() error {
	if err := s.Chunk.Validate(); err != nil {
		return err
	}
	if err := s.Quality.Validate(); err != nil {
		return err
	}
	if err := s.Corpus.Validate(); err != nil {
		return err
	}
	if s.Embedding.Dimensions <= 0 {
		return NewConfigurationError("embedding.dimensions", "must be positive, got %d", s.Embedding.Dimensions)
	}
	if s.Embedding.BatchSize <= 0 {
		return NewConfigurationError("embedding.batch_size", "must be positive, got %d", s.Embedding.BatchSize)
	}
	if s.Embedding.Workers <= 0 {
		return NewConfigurationError("embedding.workers", "must be positive, got %d", s.Embedding.Workers)
	}
	if !s.Embedding.Provider.IsValid() {
		return NewConfigurationError("embedding.provider", "unsupported provider %q", s.Embedding.Provider)
	}
	if s.Store.Collection == "" {
		return NewConfigurationError("store.collection", "must not be empty")
	}
	if s.Store.BatchSize <= 0 {
		return NewConfigurationError("store.batch_size", "must be positive, got %d", s.Store.BatchSize)
	}
	if s.Store.Distance != DistanceCosine {
		return NewConfigurationError("store.distance", "unsupported metric %q", s.Store.Distance)
	}
	switch s.Store.Kind {
	case StoreQdrant, StoreMemory:
	default:
		return NewConfigurationError("store.kind", "unsupported store %q", s.Store.Kind)
	}
	return nil
}

// Validate checks the output directory and that every root writes its own
// interchange file. Roots sharing a file name, or naming one after a stage
// output, would overwrite each other.
func (c CorpusSettings) Validate() error {
	if c.OutputDir == "" {
		return NewConfigurationError("corpus.output_dir", "must not be empty")
	}
	seen := make(map[string]string, len(c.Roots))
	for _, root := range c.Roots {
		file := root.OutputFile()
		if file == AllChunksFile || file == EmbeddedChunksFile {
			return NewConfigurationError("corpus.roots", "root %s writes %s, which is reserved", root.Path, file)
		}
		if prev, ok := seen[file]; ok {
			return NewConfigurationError("corpus.roots",
				"roots %s and %s both write %s; name them with name=path", prev, root.Path, file)
		}
		seen[file] = root.Path
	}
	return nil
}

// Validate rejects windows that cannot make progress.
func (c ChunkSettings) Validate() error {
	if c.Size <= 0 {
		return NewConfigurationError("chunk.size", "must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 {
		return NewConfigurationError("chunk.overlap", "must not be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.Size {
		return NewConfigurationError("chunk.overlap",
			"must be smaller than chunk size (overlap %d, size %d)", c.Overlap, c.Size)
	}
	if c.MinChars < 0 {
		return NewConfigurationError("chunk.min_chars", "must not be negative, got %d", c.MinChars)
	}
	return nil
}

// Validate checks the thresholds are within range.
func (q QualitySettings) Validate() error {
	if q.MinLength < 0 {
		return NewConfigurationError("quality.min_length", "must not be negative, got %d", q.MinLength)
	}
	if q.MinSpaceRatio < 0 || q.MinSpaceRatio > 1 {
		return NewConfigurationError("quality.min_space_ratio", "must be within [0,1], got %g", q.MinSpaceRatio)
	}
	if q.MinAlphaRatio < 0 || q.MinAlphaRatio > 1 {
		return NewConfigurationError("quality.min_alpha_ratio", "must be within [0,1], got %g", q.MinAlphaRatio)
	}
	return nil
}
