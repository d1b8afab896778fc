package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/vectorstore VectorStore

import (
	"context"

	"github.com/google/uuid"
)

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
// Results are ordered by descending similarity (ascending cosine distance).
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional payload filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteByFilter removes every point whose payload matches all filters.
	DeleteByFilter(ctx context.Context, collection string, filters map[string]any) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/LorenzoPeve/rag-reddit/documents"))

// PointID maps an application key (such as a chunk ID) to the UUID used as its point ID.
// The mapping is deterministic, so re-ingesting a chunk overwrites its point.
func PointID(key string) string {
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}
