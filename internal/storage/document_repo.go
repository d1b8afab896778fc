package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document (chunk) storage operations.
type DocumentStore interface {
	// Insert inserts a single document. The owning post must exist.
	Insert(ctx context.Context, doc *Document) error
	// ListIDsByPost returns all document IDs for a post, ordered by chunk_id.
	ListIDsByPost(ctx context.Context, postID string) ([]string, error)
	// CountByPost returns the number of documents stored for a post.
	CountByPost(ctx context.Context, postID string) (int, error)
	// Hits loads the given documents joined with their post metadata, keyed by document ID.
	// IDs that are not stored are omitted.
	Hits(ctx context.Context, ids []string) (map[string]ChunkHit, error)
	// AnyTermSearch ranks documents containing at least one query term.
	AnyTermSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error)
	// AllTermsSearch ranks documents containing every query term.
	AllTermsSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error)
	// ListContents returns the content of every stored document.
	ListContents(ctx context.Context) ([]string, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a single document. The owning post must exist.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, post_id, chunk_id, content) VALUES (?, ?, ?, ?)",
		doc.ID, doc.PostID, doc.ChunkID, doc.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListIDsByPost returns all document IDs for a post, ordered by chunk_id.
// Returns an empty slice if no documents exist (not an error).
func (r *DocumentRepo) ListIDsByPost(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM documents WHERE post_id = ? ORDER BY chunk_id",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query document IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// CountByPost returns the number of documents stored for a post.
func (r *DocumentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE post_id = ?", postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Hits loads the given documents joined with their post metadata, keyed by document ID.
func (r *DocumentRepo) Hits(ctx context.Context, ids []string) (map[string]ChunkHit, error) {
	hits := make(map[string]ChunkHit, len(ids))

	err := inBatches(ids, func(marks string, args []any) error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT d.id, d.post_id, p.title, p.permalink, d.content
			 FROM documents d
			 JOIN posts p ON p.id = d.post_id
			 WHERE d.id IN (`+marks+`)`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("failed to query document hits: %w", err)
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			var hit ChunkHit
			if err := rows.Scan(&hit.ChunkID, &hit.PostID, &hit.Title, &hit.Permalink, &hit.Content); err != nil {
				return fmt.Errorf("failed to scan document hit: %w", err)
			}
			hits[hit.ChunkID] = hit
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("row iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// AnyTermSearch ranks documents containing at least one query term.
// The query is rewritten as an OR of its terms.
func (r *DocumentRepo) AnyTermSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error) {
	return r.textSearch(ctx, anyTermQuery(queryTerms(query)), limit)
}

// AllTermsSearch ranks documents containing every query term.
// Returns an empty slice when no document contains all of them.
func (r *DocumentRepo) AllTermsSearch(ctx context.Context, query string, limit int) ([]RankedChunk, error) {
	return r.textSearch(ctx, allTermsQuery(queryTerms(query)), limit)
}

// textSearch runs an FTS MATCH expression and ranks the matches by relevance.
func (r *DocumentRepo) textSearch(ctx context.Context, match string, limit int) ([]RankedChunk, error) {
	if match == "" || limit <= 0 {
		return []RankedChunk{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, matchinfo(documents_fts, 'pcnx')
		 FROM documents_fts
		 JOIN documents d ON d.rowid = documents_fts.docid
		 WHERE documents_fts MATCH ?`,
		match,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run text search: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var scored []scoredDocument
	for rows.Next() {
		var id string
		var info []byte
		if err := rows.Scan(&id, &info); err != nil {
			return nil, fmt.Errorf("failed to scan text search row: %w", err)
		}
		scored = append(scored, scoredDocument{id: id, score: relevance(decodeMatchInfo(info))})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return rankByScore(scored, limit), nil
}

// ListContents returns the content of every stored document.
func (r *DocumentRepo) ListContents(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT content FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to query document contents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan document content: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return contents, nil
}
