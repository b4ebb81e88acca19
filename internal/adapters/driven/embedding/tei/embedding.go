// Package tei provides an embedding service adapter for servers speaking the
// text-embeddings-inference protocol ({"inputs": [...]} -> [[...], ...]).
// It serves sentence-transformers models such as all-MiniLM-L6-v2.
package tei

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/transport"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8080"
	DefaultModel      = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 384
)

// Config holds configuration for the embedding server adapter.
type Config struct {
	// BaseURL is the server root (default: http://localhost:8080).
	BaseURL string

	// Model is reported by ModelName. The server decides which model runs.
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (default: 384).
	Dimensions int

	// RequestsPerSecond throttles requests when positive.
	RequestsPerSecond float64
}

// EmbeddingService generates embeddings with a text-embeddings-inference server.
type EmbeddingService struct {
	client     *transport.Client
	baseURL    string
	model      string
	apiKey     string
	dimensions int
}

// embedRequest is the server request format.
type embedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

// NewEmbeddingService creates a new embedding server adapter.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client: transport.New(transport.Config{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
// The server encodes each input independently, so results do not depend on
// how texts are grouped into batches.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32
	req := embedRequest{Inputs: texts, Normalize: true, Truncate: true}
	if err := s.client.PostJSON(ctx, s.baseURL+"/embed", s.headers(), req, &embeddings); err != nil {
		return nil, fmt.Errorf("tei: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("tei: got %d embeddings for %d inputs", len(embeddings), len(texts))
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable by checking the /health endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/health", s.headers()); err != nil {
		return fmt.Errorf("tei: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (s *EmbeddingService) headers() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + s.apiKey}
}
