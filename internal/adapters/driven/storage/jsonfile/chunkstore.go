// Package jsonfile provides a ChunkStore that writes interchange files as
// indented JSON arrays, one file per collection name.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// record is the on-disk chunk format.
type record struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Metadata  metadata  `json:"metadata"`
	Embedding []float32 `json:"embedding,omitempty"`
}

type metadata struct {
	Source     string          `json:"source"`
	ChunkIndex int             `json:"chunk_index"`
	Category   domain.Category `json:"category"`
}

// ChunkStore reads and writes chunk files in a directory.
type ChunkStore struct {
	dir string
}

// NewChunkStore creates a store rooted at dir. The directory is created on
// first save.
func NewChunkStore(dir string) *ChunkStore {
	return &ChunkStore{dir: dir}
}

// Path returns the file the named collection is stored in.
func (s *ChunkStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save writes chunks to a temporary file and renames it into place, so a
// failed save never leaves a truncated file behind.
func (s *ChunkStore) Save(ctx context.Context, name string, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	records := make([]record, 0, len(chunks))
	for i := range chunks {
		records = append(records, toRecord(&chunks[i]))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Load reads the named collection.
func (s *ChunkStore) Load(ctx context.Context, name string) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.Path(name), domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	chunks := make([]domain.Chunk, 0, len(records))
	for _, r := range records {
		chunks = append(chunks, fromRecord(r))
	}
	return chunks, nil
}

func toRecord(c *domain.Chunk) record {
	return record{
		ID:      c.ID,
		Content: c.Content,
		Metadata: metadata{
			Source:     c.Source,
			ChunkIndex: c.ChunkIndex,
			Category:   c.Category,
		},
		Embedding: c.Embedding,
	}
}

func fromRecord(r record) domain.Chunk {
	return domain.Chunk{
		ID:         r.ID,
		Content:    r.Content,
		Source:     r.Metadata.Source,
		ChunkIndex: r.Metadata.ChunkIndex,
		Category:   r.Metadata.Category,
		Embedding:  r.Embedding,
	}
}
