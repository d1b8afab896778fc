package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_post_store.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/storage PostStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostStore defines the interface for post storage operations.
type PostStore interface {
	// Insert inserts a new post. The post.ID must be set.
	Insert(ctx context.Context, post *Post) error
	// Get gets a post by ID. Returns a *NotFoundError if not found.
	Get(ctx context.Context, id string) (*Post, error)
	// Delete deletes a post and all of its documents.
	Delete(ctx context.Context, id string) error
	// ListWithoutDocuments returns the IDs of posts that have no documents.
	ListWithoutDocuments(ctx context.Context) ([]string, error)
	// Permalinks maps each known ID to its permalink. Unknown IDs are omitted.
	Permalinks(ctx context.Context, ids []string) (map[string]string, error)
	// Count returns the number of stored posts.
	Count(ctx context.Context) (int, error)
}

// PostRepo provides methods for post operations.
// It implements the PostStore interface.
type PostRepo struct {
	db *sql.DB
}

// NewPostRepo creates a new PostRepo.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

// Insert inserts a new post. The post.ID must be set.
func (r *PostRepo) Insert(ctx context.Context, post *Post) error {
	var tag sql.NullString
	if post.Tag != "" {
		tag = sql.NullString{String: post.Tag, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, description, score, upvotes, downvotes, tag,
			num_comments, permalink, content_hash, created_at, last_updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Description, post.Score, post.Upvotes, post.Downvotes, tag,
		post.NumComments, post.Permalink, post.ContentHash, post.CreatedAt.UTC(), post.LastUpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Get gets a post by ID. Returns a *NotFoundError if not found.
func (r *PostRepo) Get(ctx context.Context, id string) (*Post, error) {
	var post Post
	var tag sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, score, upvotes, downvotes, tag,
			num_comments, permalink, content_hash, created_at, last_updated_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(&post.ID, &post.Title, &post.Description, &post.Score, &post.Upvotes, &post.Downvotes, &tag,
		&post.NumComments, &post.Permalink, &post.ContentHash, &post.CreatedAt, &post.LastUpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "post", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	post.Tag = tag.String

	return &post, nil
}

// Delete deletes a post and all of its documents.
// Documents are removed explicitly inside the same transaction so the text
// index triggers run before the parent row disappears; the foreign key
// cascade covers any writer that deletes posts directly.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE post_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete documents for post: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post deletion: %w", err)
	}
	return nil
}

// ListWithoutDocuments returns the IDs of posts that have no documents.
// These are left behind by ingestions that failed half-way and need a backfill.
func (r *PostRepo) ListWithoutDocuments(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id FROM posts p
		 LEFT JOIN documents d ON d.post_id = p.id
		 WHERE d.id IS NULL
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts without documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// Permalinks maps each known ID to its permalink. Unknown IDs are omitted.
func (r *PostRepo) Permalinks(ctx context.Context, ids []string) (map[string]string, error) {
	urls := make(map[string]string, len(ids))

	err := inBatches(ids, func(marks string, args []any) error {
		rows, err := r.db.QueryContext(ctx,
			"SELECT id, permalink FROM posts WHERE id IN ("+marks+")",
			args...,
		)
		if err != nil {
			return fmt.Errorf("failed to query permalinks: %w", err)
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			var id, permalink string
			if err := rows.Scan(&id, &permalink); err != nil {
				return fmt.Errorf("failed to scan permalink: %w", err)
			}
			urls[id] = permalink
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("row iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// Count returns the number of stored posts.
func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// maxBatchIDs bounds the bound parameters of one IN list, well under
// SQLite's SQLITE_MAX_VARIABLE_NUMBER.
const maxBatchIDs = 500

// placeholders returns n comma separated bind parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// inBatches calls fn with the placeholder list and arguments for consecutive
// slices of at most maxBatchIDs ids. It stops at the first error.
func inBatches(ids []string, fn func(marks string, args []any) error) error {
	for start := 0; start < len(ids); start += maxBatchIDs {
		batch := ids[start:min(start+maxBatchIDs, len(ids))]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		if err := fn(placeholders(len(batch)), args); err != nil {
			return err
		}
	}
	return nil
}
