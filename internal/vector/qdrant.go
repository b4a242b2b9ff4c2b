package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/models"
)

// Payload field names for stored records.
const (
	payloadText     = "text"
	payloadSource   = "source"
	payloadFilename = "filename"
	payloadPage     = "page"
)

// QdrantStore implements Store backed by a Qdrant collection over gRPC.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dimensions uint64
	distance   qdrant.Distance
}

// NewQdrantStore connects to the configured Qdrant server. The connection is
// lazy; the first call reports connectivity errors.
func NewQdrantStore(cfg *config.VectorConfig, dimensions int) (*QdrantStore, error) {
	distance, err := parseDistance(cfg.Distance)
	if err != nil {
		return nil, err
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}
	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		dimensions: uint64(dimensions),
		distance:   distance,
	}, nil
}

func parseDistance(name string) (qdrant.Distance, error) {
	switch strings.ToLower(name) {
	case "cosine", "":
		return qdrant.Distance_Cosine, nil
	case "dot":
		return qdrant.Distance_Dot, nil
	case "euclid", "euclidean":
		return qdrant.Distance_Euclid, nil
	default:
		return qdrant.Distance_UnknownDistance, fmt.Errorf("unknown distance metric: %q", name)
	}
}

// EnsureCollection creates the collection when missing. An existing
// collection's dimensionality and metric are checked once here, never
// re-validated per insert.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.dimensions,
				Distance: s.distance,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %q: %w", s.collection, err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("collection info: %w", err)
	}
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params.GetSize() != s.dimensions {
		return fmt.Errorf("collection %q has dimension %d, embedder produces %d: %w",
			s.collection, params.GetSize(), s.dimensions, ErrDimensionMismatch)
	}
	if params.GetDistance() != s.distance {
		return fmt.Errorf("collection %q uses distance %s, configured %s: %w",
			s.collection, params.GetDistance(), s.distance, ErrDimensionMismatch)
	}
	return nil
}

// Upsert writes records as points keyed by their stable IDs.
func (s *QdrantStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(r.ID),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadText:     r.Text,
				payloadSource:   r.Metadata.Source,
				payloadFilename: r.Metadata.Filename,
				payloadPage:     int64(r.Metadata.Page),
			}),
		}
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// DeleteBySource removes all points whose source payload equals path.
func (s *QdrantStore) DeleteBySource(ctx context.Context, path string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(payloadSource, path)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("delete points for %s: %w", path, err)
	}
	return nil
}

// Search returns the k nearest points with payloads, ordered by descending
// similarity.
func (s *QdrantStore) Search(ctx context.Context, vec []float32, k int) ([]ScoredRecord, error) {
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	results := make([]ScoredRecord, 0, len(hits))
	for _, hit := range hits {
		payload := hit.GetPayload()
		results = append(results, ScoredRecord{
			Score: hit.GetScore(),
			Record: Record{
				ID:   hit.GetId().GetUuid(),
				Text: payload[payloadText].GetStringValue(),
				Metadata: models.ChunkMetadata{
					Source:   payload[payloadSource].GetStringValue(),
					Filename: payload[payloadFilename].GetStringValue(),
					Page:     int(payload[payloadPage].GetIntegerValue()),
				},
			},
		})
	}
	return results, nil
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
