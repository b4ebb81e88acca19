package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or store kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Pipeline Errors.

	// ErrConfiguration indicates invalid settings detected before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrInputRead indicates a corpus document could not be read or decoded.
	ErrInputRead = errors.New("input read error")

	// ErrEmbedding indicates the embedding model failed for a batch.
	ErrEmbedding = errors.New("embedding failure")

	// ErrIndexStore indicates a vector store operation failed.
	ErrIndexStore = errors.New("index store failure")

	// ErrPartialLoad indicates the collection was left partially loaded.
	ErrPartialLoad = errors.New("collection partially loaded")
)

// ConfigurationError describes an invalid setting. It is fatal and raised
// before any embedding or store call is made.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// InputReadError records a document that was skipped.
type InputReadError struct {
	Source string
	Err    error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *InputReadError) Unwrap() []error {
	return []error{ErrInputRead, e.Err}
}

// EmbeddingError attributes a model failure to one batch so it can be retried.
type EmbeddingError struct {
	// Batch is the 0-based batch index.
	Batch int

	// Size is the number of texts in the batch.
	Size int

	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding batch %d (size %d): %v", e.Batch, e.Size, e.Err)
}

func (e *EmbeddingError) Unwrap() []error {
	return []error{ErrEmbedding, e.Err}
}

// IndexStoreError describes a failed collection operation.
type IndexStoreError struct {
	// Op is the store operation: delete, create, upsert, query or count.
	Op         string
	Collection string

	// Batch is the upsert batch index, -1 when not applicable.
	Batch int

	Err error
}

func (e *IndexStoreError) Error() string {
	if e.Batch >= 0 {
		return fmt.Sprintf("index store %s %q batch %d: %v", e.Op, e.Collection, e.Batch, e.Err)
	}
	return fmt.Sprintf("index store %s %q: %v", e.Op, e.Collection, e.Err)
}

func (e *IndexStoreError) Unwrap() []error {
	return []error{ErrIndexStore, e.Err}
}

// NewIndexStoreError wraps a store failure not tied to a batch.
func NewIndexStoreError(op, collection string, err error) *IndexStoreError {
	return &IndexStoreError{Op: op, Collection: collection, Batch: -1, Err: err}
}
