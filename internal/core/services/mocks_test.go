package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors depend only on the text, so batching never changes them.
type mockEmbeddingService struct {
	mu       sync.Mutex
	dims     int
	model    string
	embedErr error
	pingErr  error
	failOn   string // EmbedBatch fails for any batch containing this text
	shortOn  string // returns a truncated vector for this text
	dropLast bool   // EmbedBatch returns one vector too few
	override map[string][]float32
	batches  []int
	queries  []string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.override[text]; ok {
		return v
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()
	vec := make([]float32, m.Dimensions())
	for i := range vec {
		vec[i] = float32((seed>>(uint(i)%24))&0xff)/255 + float32(i)/1000
	}
	if m.shortOn != "" && text == m.shortOn {
		return vec[:len(vec)-1]
	}
	return vec
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.queries = append(m.queries, text)
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, len(texts))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	for _, t := range texts {
		if m.failOn != "" && t == m.failOn {
			return nil, errors.New("model overloaded")
		}
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	if m.dropLast {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.batches))
	copy(out, m.batches)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	collections map[string]map[int64]domain.IndexPoint
	dims        map[string]int
	calls       []string
	upserts     []int
	hits        []domain.QueryResult
	lastLimit   int
	deleteErr   error
	createErr   error
	upsertErr   error
	failUpsert  int // 1-based upsert call that fails with upsertErr; 0 fails all
	queryErr    error
	countErr    error
	countDelta  int
	onUpsert    func(call int)
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{
		collections: make(map[string]map[int64]domain.IndexPoint),
		dims:        make(map[string]int),
	}
}

func (m *mockVectorIndex) DeleteCollection(_ context.Context, name string) (bool, error) {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	_, ok := m.collections[name]
	delete(m.collections, name)
	return ok, nil
}

func (m *mockVectorIndex) CreateCollection(_ context.Context, name string, dimensions int, _ domain.Distance) error {
	m.calls = append(m.calls, "create")
	if m.createErr != nil {
		return m.createErr
	}
	m.collections[name] = make(map[int64]domain.IndexPoint)
	m.dims[name] = dimensions
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, name string, points []domain.IndexPoint) error {
	m.calls = append(m.calls, "upsert")
	call := len(m.upserts) + 1
	if m.upsertErr != nil && (m.failUpsert == 0 || m.failUpsert == call) {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, len(points))
	for _, p := range points {
		m.collections[name][p.ID] = p
	}
	if m.onUpsert != nil {
		m.onUpsert(call)
	}
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ string, _ []float32, limit int, _ float32) ([]domain.QueryResult, error) {
	m.calls = append(m.calls, "query")
	m.lastLimit = limit
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.hits, nil
}

func (m *mockVectorIndex) Count(_ context.Context, name string) (int, error) {
	m.calls = append(m.calls, "count")
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.collections[name]) + m.countDelta, nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockChunkStore implements driven.ChunkStore in memory.
type mockChunkStore struct {
	saved   map[string][]domain.Chunk
	order   []string
	saveErr error
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{saved: make(map[string][]domain.Chunk)}
}

func (m *mockChunkStore) Save(_ context.Context, name string, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := make([]domain.Chunk, len(chunks))
	copy(cp, chunks)
	m.saved[name] = cp
	m.order = append(m.order, name)
	return nil
}

func (m *mockChunkStore) Load(_ context.Context, name string) ([]domain.Chunk, error) {
	chunks, ok := m.saved[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

func (m *mockChunkStore) Path(name string) string {
	return "mem://" + name
}

// mockCorpusReader implements driven.CorpusReader over an in-memory file map.
type mockCorpusReader struct {
	files    map[string]string
	readErrs map[string]error
	listErr  error
}

func (m *mockCorpusReader) List(_ context.Context, root string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	var paths []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	for p := range m.readErrs {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *mockCorpusReader) Read(_ context.Context, path string) (*domain.Document, error) {
	if err, ok := m.readErrs[path]; ok {
		return nil, &domain.InputReadError{Source: path, Err: err}
	}
	return &domain.Document{Source: path, Content: m.files[path]}, nil
}

// mockRunStore implements driven.RunStore in memory.
type mockRunStore struct {
	mu      sync.Mutex
	runs    map[string]domain.Run
	order   []string
	history []domain.Run
	saveErr error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{runs: make(map[string]domain.Run)}
}

func (m *mockRunStore) Save(_ context.Context, run *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.runs[run.ID]; !ok {
		m.order = append(m.order, run.ID)
	}
	m.runs[run.ID] = *run
	m.history = append(m.history, *run)
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

func (m *mockRunStore) Latest(_ context.Context, stage domain.Stage) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		run := m.runs[m.order[i]]
		if run.Stage == stage {
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) List(_ context.Context, limit int) ([]domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Run
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[m.order[i]])
	}
	return out, nil
}

// Compile-time interface checks for the mocks.
var (
	_ driven.EmbeddingService = (*mockEmbeddingService)(nil)
	_ driven.VectorIndex      = (*mockVectorIndex)(nil)
	_ driven.ChunkStore       = (*mockChunkStore)(nil)
	_ driven.CorpusReader     = (*mockCorpusReader)(nil)
	_ driven.RunStore         = (*mockRunStore)(nil)
)

// embeddedChunks builds n chunks with ids 1..n and dims-long embeddings.
func embeddedChunks(n, dims int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		vec := make([]float32, dims)
		vec[i%dims] = 1
		chunks[i] = domain.Chunk{
			ID:        int64(i + 1),
			Content:   "chunk content",
			Source:    "docs/a.md",
			Category:  domain.CategoryGeneral,
			Embedding: vec,
		}
	}
	return chunks
}
