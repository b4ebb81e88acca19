package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Saved chunks are copied so callers may reuse their slices.
type ChunkStore struct {
	mu    sync.RWMutex
	files map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		files: make(map[string][]domain.Chunk),
	}
}

// Save stores chunks under name, replacing previous content.
func (s *ChunkStore) Save(_ context.Context, name string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = cloneChunks(chunks)
	return nil
}

// Load returns a copy of the chunks saved under name.
func (s *ChunkStore) Load(_ context.Context, name string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.Path(name), domain.ErrNotFound)
	}
	return cloneChunks(chunks), nil
}

// Path returns a pseudo path for the named collection.
func (s *ChunkStore) Path(name string) string {
	return "memory://" + name
}

// Len returns the number of saved collections.
func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func cloneChunks(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		if c.Embedding != nil {
			c.Embedding = append([]float32(nil), c.Embedding...)
		}
		out[i] = c
	}
	return out
}
