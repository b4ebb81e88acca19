// Package qdrant provides a VectorIndex backed by a Qdrant server over gRPC.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost = "localhost"
	DefaultPort = 6334
)

// Payload keys stored with every point.
const (
	payloadContent  = "content"
	payloadSource   = "source"
	payloadCategory = "category"
)

// Config holds connection settings.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// collectionsClient is the subset of *qdrant.Client the index uses.
type collectionsClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	DeleteCollection(ctx context.Context, collectionName string) error
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
	Close() error
}

// Index is a Qdrant-backed vector index.
type Index struct {
	client collectionsClient
}

// New connects to a Qdrant server. The gRPC connection is established lazily,
// so an unreachable server surfaces on the first operation.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect to qdrant at %s:%d: %w",
			domain.ErrVectorIndexUnavailable, cfg.Host, cfg.Port, err)
	}
	return &Index{client: client}, nil
}

// newWithClient wraps an existing client. Used by tests.
func newWithClient(client collectionsClient) *Index {
	return &Index{client: client}
}

// DeleteCollection drops the collection if it exists.
func (i *Index) DeleteCollection(ctx context.Context, name string) (bool, error) {
	exists, err := i.client.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return false, nil
	}
	if err := i.client.DeleteCollection(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

// CreateCollection creates an empty collection.
func (i *Index) CreateCollection(ctx context.Context, name string, dimensions int, distance domain.Distance) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}
	metric, err := toDistance(distance)
	if err != nil {
		return err
	}

	return i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: metric,
		}),
	})
}

// Upsert writes points and waits for them to be applied.
func (i *Index) Upsert(ctx context.Context, name string, points []domain.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if p.ID < 0 {
			return fmt.Errorf("%w: negative point id %d", domain.ErrInvalidInput, p.ID)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(p.ID)),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadContent:  p.Payload.Content,
				payloadSource:   p.Payload.Source,
				payloadCategory: p.Payload.Category.String(),
			}),
		})
	}

	wait := true
	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points:         structs,
	})
	return err
}

// Query returns the nearest points scoring at least threshold.
func (i *Index) Query(
	ctx context.Context, name string, vector []float32, limit int, threshold float32,
) ([]domain.QueryResult, error) {
	if limit <= 0 {
		return nil, nil
	}
	l := uint64(limit)

	points, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &l,
		ScoreThreshold: &threshold,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.QueryResult, 0, len(points))
	for _, p := range points {
		results = append(results, domain.QueryResult{
			ID:    int64(p.GetId().GetNum()),
			Score: p.GetScore(),
			Payload: domain.Payload{
				Content:  payloadString(p.GetPayload(), payloadContent),
				Source:   payloadString(p.GetPayload(), payloadSource),
				Category: domain.Category(payloadString(p.GetPayload(), payloadCategory)),
			},
		})
	}
	return results, nil
}

// Count returns the exact number of points in the collection.
func (i *Index) Count(ctx context.Context, name string) (int, error) {
	exact := true
	n, err := i.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          &exact,
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the gRPC connection.
func (i *Index) Close() error {
	return i.client.Close()
}

func toDistance(d domain.Distance) (qdrant.Distance, error) {
	switch d {
	case domain.DistanceCosine, "":
		return qdrant.Distance_Cosine, nil
	default:
		return 0, fmt.Errorf("%w: distance %q", domain.ErrUnsupportedType, d)
	}
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
