package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
)

const defaultGRPCPort = 6334

// CollectionInfo summarizes a collection for startup logs and health output.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// QdrantStore implements VectorStore on top of the Qdrant gRPC API.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore connects to Qdrant. The URL is the HTTP endpoint
// (e.g. "http://localhost:6333"); the client talks gRPC on the next port up.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	host, port, err := grpcTarget(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return &QdrantStore{client: client}, nil
}

func grpcTarget(urlStr string) (string, int, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	if u.Port() == "" {
		return host, defaultGRPCPort, nil
	}
	httpPort, err := strconv.Atoi(u.Port())
	if err != nil {
		return host, defaultGRPCPort, nil
	}
	return host, httpPort + 1, nil
}

// Upsert writes points and waits until they are searchable.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         toPointStructs(points),
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "qdrant upsert failed",
			"collection", collection, "points", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

func toPointStructs(points []Point) []*qdrant.PointStruct {
	out := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		ps := &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vec...),
		}
		if len(p.Meta) > 0 {
			ps.Payload = qdrant.NewValueMap(p.Meta)
		}
		out[i] = ps
	}
	return out
}

// Search returns the k nearest points by cosine similarity, best first.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, errors.New("k must be greater than 0")
	}

	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)),
		Filter:         buildFilter(filters),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "qdrant query failed",
			"collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, len(scored))
	for i, sp := range scored {
		results[i] = SearchResult{
			PointID: sp.GetId().GetUuid(),
			Score:   sp.GetScore(),
			Meta:    convertPayloadToMap(sp.GetPayload()),
		}
	}
	return results, nil
}

// Delete removes points by ID.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}
	if err := s.deletePoints(ctx, collection, qdrant.NewPointsSelector(pointIDs...)); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// DeleteByFilter removes every point whose payload matches all filters.
// An empty filter set is rejected so a bad call cannot wipe the collection.
func (s *QdrantStore) DeleteByFilter(ctx context.Context, collection string, filters map[string]any) error {
	filter := buildFilter(filters)
	if filter == nil {
		return errors.New("delete by filter requires at least one filter")
	}
	if err := s.deletePoints(ctx, collection, qdrant.NewPointsSelectorFilter(filter)); err != nil {
		return fmt.Errorf("failed to delete points by filter: %w", err)
	}
	return nil
}

func (s *QdrantStore) deletePoints(ctx context.Context, collection string, selector *qdrant.PointsSelector) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         selector,
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "qdrant delete failed",
			"collection", collection, "error", err)
	}
	return err
}

// CollectionExists reports whether the collection has been created.
func (s *QdrantStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection creates the collection with cosine distance when missing,
// or checks that an existing one has the expected vector size. Each keyword
// field gets a payload index so filtered deletes stay fast.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int, keywordFields ...string) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}

	if exists {
		info, err := s.GetCollectionInfo(ctx, collection)
		if err != nil {
			return err
		}
		if info.VectorSize == 0 {
			return fmt.Errorf("could not determine vector size of collection %q", collection)
		}
		if info.VectorSize != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, info.VectorSize)
		}
		logger.InfoContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize)
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	for _, field := range keywordFields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collection,
			Wait:           qdrant.PtrOf(true),
			FieldName:      field,
			FieldType:      qdrant.PtrOf(qdrant.FieldType_FieldTypeKeyword),
		})
		if err != nil {
			return fmt.Errorf("failed to index payload field %q: %w", field, err)
		}
	}

	logger.InfoContext(ctx, "collection created",
		"collection", collection, "vector_size", vectorSize, "indexed_fields", keywordFields)
	return nil
}

// GetCollectionInfo reads the vector size, point count and status of a collection.
func (s *QdrantStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	out := &CollectionInfo{
		VectorSize:  int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()),
		PointsCount: int(info.GetPointsCount()),
		Status:      "unknown",
	}
	if info.GetStatus() != qdrant.CollectionStatus_UnknownCollectionStatus {
		out.Status = info.GetStatus().String()
	}
	return out, nil
}

// buildFilter turns exact-match payload filters into a Qdrant filter.
// Strings match as keywords and integers as integers; other value types are
// ignored. Returns nil when no condition applies.
func buildFilter(filters map[string]any) *qdrant.Filter {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var must []*qdrant.Condition
	for _, key := range keys {
		switch v := filters[key].(type) {
		case string:
			must = append(must, qdrant.NewMatch(key, v))
		case int:
			must = append(must, qdrant.NewMatchInt(key, int64(v)))
		case int32:
			must = append(must, qdrant.NewMatchInt(key, int64(v)))
		case int64:
			must = append(must, qdrant.NewMatchInt(key, v))
		}
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		if value != nil {
			out[key] = convertValue(value)
		}
	}
	return out
}

func convertValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}
