package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/vectorstore"
)

// Payload keys stored with every vector point.
const (
	PayloadChunkID = "chunk_id"
	PayloadPostID  = "post_id"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (llm.Embedding, error)
}

// Store combines the relational tables, the text index and the vector index.
// Chunk rows live in SQLite and their embeddings live in the vector store,
// keyed by vectorstore.PointID(chunk ID).
type Store struct {
	posts      PostStore
	documents  DocumentStore
	vectors    vectorstore.VectorStore
	embedder   Embedder
	collection string
}

// NewStore creates a new Store.
func NewStore(posts PostStore, documents DocumentStore, vectors vectorstore.VectorStore, embedder Embedder, collection string) *Store {
	return &Store{
		posts:      posts,
		documents:  documents,
		vectors:    vectors,
		embedder:   embedder,
		collection: collection,
	}
}

// VectorSearch embeds the query and ranks chunks by ascending cosine distance.
// An embedding failure is returned unchanged so callers can match *llm.EmbeddingError.
func (s *Store) VectorSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error) {
	if limit <= 0 {
		return []RankedChunk{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.vectors.Search(ctx, s.collection, embedding.Vector, limit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search vectors: %w", err)
	}

	ranked := make([]RankedChunk, 0, len(results))
	for _, result := range results {
		chunkID, _ := result.Meta[PayloadChunkID].(string)
		if chunkID == "" {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "vector point without chunk id", "point_id", result.PointID)
			continue
		}
		ranked = append(ranked, RankedChunk{ChunkID: chunkID, Rank: len(ranked) + 1})
	}
	return ranked, nil
}

// AnyTermSearch ranks chunks containing at least one query term.
func (s *Store) AnyTermSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error) {
	return s.documents.AnyTermSearch(ctx, query, limit)
}

// AllTermsSearch ranks chunks containing every query term.
func (s *Store) AllTermsSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error) {
	return s.documents.AllTermsSearch(ctx, query, limit)
}

// Hits loads chunks with their post metadata, keyed by chunk ID.
func (s *Store) Hits(ctx context.Context, ids []string) (map[string]ChunkHit, error) {
	return s.documents.Hits(ctx, ids)
}

// GetPost returns a stored post. Returns a *NotFoundError if it does not exist.
func (s *Store) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.posts.Get(ctx, id)
}

// InsertPost stores a post without chunks.
func (s *Store) InsertPost(ctx context.Context, post *Post) error {
	return s.posts.Insert(ctx, post)
}

// InsertChunk stores a chunk row and its embedding.
func (s *Store) InsertChunk(ctx context.Context, doc *Document, vector []float32) error {
	if err := s.documents.Insert(ctx, doc); err != nil {
		return err
	}

	point := vectorstore.Point{
		ID:  vectorstore.PointID(doc.ID),
		Vec: vector,
		Meta: map[string]any{
			PayloadChunkID: doc.ID,
			PayloadPostID:  doc.PostID,
		},
	}
	if err := s.vectors.Upsert(ctx, s.collection, []vectorstore.Point{point}); err != nil {
		return fmt.Errorf("failed to store chunk embedding: %w", err)
	}
	return nil
}

// DeletePost removes a post, its chunks and their embeddings.
// Rows go first: a leftover point whose chunk row is gone is skipped at query time.
// Embeddings are removed by a post_id payload filter; if that fails, the
// chunk IDs read before the row delete are removed point by point instead.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	chunkIDs, err := s.documents.ListIDsByPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	filterErr := s.vectors.DeleteByFilter(ctx, s.collection, map[string]any{PayloadPostID: id})
	if filterErr == nil {
		return nil
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "filtered embedding delete failed, deleting by point id",
		"post_id", id, "chunks", len(chunkIDs), "error", filterErr)

	pointIDs := make([]string, len(chunkIDs))
	for i, chunkID := range chunkIDs {
		pointIDs[i] = vectorstore.PointID(chunkID)
	}
	if err := s.vectors.Delete(ctx, s.collection, pointIDs); err != nil {
		return fmt.Errorf("failed to delete post embeddings: %w", errors.Join(filterErr, err))
	}
	return nil
}

// CountDocuments returns the number of chunks stored for a post.
func (s *Store) CountDocuments(ctx context.Context, postID string) (int, error) {
	return s.documents.CountByPost(ctx, postID)
}

// Permalinks maps known post IDs to their permalinks.
func (s *Store) Permalinks(ctx context.Context, ids []string) (map[string]string, error) {
	return s.posts.Permalinks(ctx, ids)
}

// PostsWithoutDocuments lists posts left without chunks by a failed ingestion.
func (s *Store) PostsWithoutDocuments(ctx context.Context) ([]string, error) {
	return s.posts.ListWithoutDocuments(ctx)
}

// CountPosts returns the number of stored posts.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	return s.posts.Count(ctx)
}

// DocumentContents returns the content of every stored chunk.
func (s *Store) DocumentContents(ctx context.Context) ([]string, error) {
	return s.documents.ListContents(ctx)
}
