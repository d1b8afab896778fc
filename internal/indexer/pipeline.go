package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/indexer Source
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/indexer Index
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/indexer Embedder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/reddit"
	"github.com/LorenzoPeve/rag-reddit/internal/storage"
)

const (
	// DefaultWorkers is the number of posts ingested concurrently.
	DefaultWorkers = 10
	// DefaultTokenLimit is the input limit of the embedding model.
	DefaultTokenLimit = 8191
)

// DefaultSkipFlairs are the flairs of posts that are never ingested.
var DefaultSkipFlairs = []string{"Meme"}

// Source reads posts from the forum.
type Source interface {
	TopPosts(ctx context.Context, q reddit.TopQuery) (reddit.Listing, error)
	Post(ctx context.Context, id string) (reddit.Post, error)
	Comments(ctx context.Context, id string) (string, error)
}

// Index is the storage the pipeline writes to.
type Index interface {
	GetPost(ctx context.Context, id string) (*storage.Post, error)
	InsertPost(ctx context.Context, post *storage.Post) error
	InsertChunk(ctx context.Context, doc *storage.Document, vector []float32) error
	DeletePost(ctx context.Context, id string) error
	CountDocuments(ctx context.Context, postID string) (int, error)
	PostsWithoutDocuments(ctx context.Context) ([]string, error)
	CountPosts(ctx context.Context) (int, error)
	DocumentContents(ctx context.Context) ([]string, error)
}

// Embedder turns chunk text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (llm.Embedding, error)
}

// Outcome is what IngestPost did with a post.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeInserted
	OutcomeReplaced
)

// Options tunes a Pipeline. Zero values fall back to the defaults.
type Options struct {
	Workers    int
	TokenLimit int
	SkipFlairs []string
}

// RunStats counts what a batch did.
type RunStats struct {
	Fetched   int `json:"fetched"`
	Inserted  int `json:"inserted"`
	Replaced  int `json:"replaced"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Add accumulates o into s.
func (s *RunStats) Add(o RunStats) {
	s.Fetched += o.Fetched
	s.Inserted += o.Inserted
	s.Replaced += o.Replaced
	s.Unchanged += o.Unchanged
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

func (s *RunStats) record(outcome Outcome, err error) {
	switch {
	case err != nil:
		s.Failed++
	case outcome == OutcomeInserted:
		s.Inserted++
	case outcome == OutcomeReplaced:
		s.Replaced++
	default:
		s.Unchanged++
	}
}

// RunOptions selects the listing pages a Run ingests.
type RunOptions struct {
	Subreddit string
	Window    string
	Limit     int // Posts per page
	Pages     int // Defaults to 1
}

// Pipeline ingests forum posts into the index: it fetches comments,
// fingerprints, chunks and embeds each post.
type Pipeline struct {
	source     Source
	index      Index
	embedder   Embedder
	chunker    *Chunker
	detector   *Detector
	workers    int
	tokenLimit int
	skipFlairs map[string]bool
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(source Source, index Index, embedder Embedder, chunker *Chunker, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.TokenLimit <= 0 {
		opts.TokenLimit = DefaultTokenLimit
	}
	if opts.SkipFlairs == nil {
		opts.SkipFlairs = DefaultSkipFlairs
	}

	skip := make(map[string]bool, len(opts.SkipFlairs))
	for _, f := range opts.SkipFlairs {
		skip[f] = true
	}

	return &Pipeline{
		source:     source,
		index:      index,
		embedder:   embedder,
		chunker:    chunker,
		detector:   NewDetector(index, source),
		workers:    opts.Workers,
		tokenLimit: opts.TokenLimit,
		skipFlairs: skip,
	}
}

// IngestPost stores a post that is not in the index yet, replaces a stored
// post that has no chunks or has changed, and leaves an unchanged post alone.
// Failures are returned as *IngestionError.
func (p *Pipeline) IngestPost(ctx context.Context, post reddit.Post) (Outcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := p.index.GetPost(ctx, post.ID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := p.insert(ctx, post); err != nil {
			return OutcomeInserted, err
		}
		logger.InfoContext(ctx, "inserted post", "post_id", post.ID, "title", post.Title)
		return OutcomeInserted, nil
	}
	if err != nil {
		return OutcomeUnchanged, &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to look up post: %w", err)}
	}

	chunks, err := p.index.CountDocuments(ctx, post.ID)
	if err != nil {
		return OutcomeUnchanged, &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to count chunks: %w", err)}
	}
	if chunks > 0 {
		modified, err := p.detector.IsModified(ctx, post.ID)
		if err != nil {
			return OutcomeUnchanged, &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to check for changes: %w", err)}
		}
		if !modified {
			logger.DebugContext(ctx, "post unchanged", "post_id", post.ID)
			return OutcomeUnchanged, nil
		}
	}

	if err := p.index.DeletePost(ctx, post.ID); err != nil {
		return OutcomeReplaced, &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to delete stale post: %w", err)}
	}
	if err := p.insert(ctx, post); err != nil {
		return OutcomeReplaced, err
	}
	logger.InfoContext(ctx, "replaced post", "post_id", post.ID, "previous_chunks", chunks)
	return OutcomeReplaced, nil
}

func (p *Pipeline) insert(ctx context.Context, post reddit.Post) error {
	comments, err := p.source.Comments(ctx, post.ID)
	if err != nil {
		return &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to fetch comments: %w", err)}
	}

	record := &storage.Post{
		ID:            post.ID,
		Title:         post.Title,
		Description:   post.Selftext,
		Score:         post.Score,
		Upvotes:       post.Ups,
		Downvotes:     post.Downs,
		Tag:           post.Flair,
		NumComments:   post.NumComments,
		Permalink:     post.URL(),
		ContentHash:   Fingerprint(post.Title, post.Selftext, comments),
		CreatedAt:     post.CreatedAt(),
		LastUpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := p.index.InsertPost(ctx, record); err != nil {
		return &IngestionError{PostID: post.ID, Err: fmt.Errorf("failed to insert post: %w", err)}
	}

	if err := p.insertChunks(ctx, post, comments); err != nil {
		if delErr := p.index.DeletePost(ctx, post.ID); delErr != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to clean up partial post", "post_id", post.ID, "error", delErr)
		}
		return &IngestionError{PostID: post.ID, Err: err}
	}
	return nil
}

func (p *Pipeline) insertChunks(ctx context.Context, post reddit.Post, comments string) error {
	chunks := p.chunker.Chunk(post.ID, post.Title, DocumentBody(post.Title, post.Selftext, comments))
	for _, chunk := range chunks {
		if chunk.Tokens > p.tokenLimit {
			return fmt.Errorf("chunk %s has %d tokens, over the embedding limit of %d", chunk.ID, chunk.Tokens, p.tokenLimit)
		}

		emb, err := p.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s: %w", chunk.ID, err)
		}

		doc := &storage.Document{
			ID:      chunk.ID,
			PostID:  post.ID,
			ChunkID: chunk.Seq,
			Content: chunk.Content,
		}
		if err := p.index.InsertChunk(ctx, doc, emb.Vector); err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

// IngestPosts ingests posts concurrently. A failed post is logged and
// counted; it does not stop the batch. The returned error is only set when
// ctx is cancelled.
func (p *Pipeline) IngestPosts(ctx context.Context, posts []reddit.Post) (RunStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		mu    sync.Mutex
		stats = RunStats{Fetched: len(posts)}
		g     errgroup.Group
	)
	g.SetLimit(p.workers)

	for _, post := range posts {
		if p.skipFlairs[post.Flair] {
			logger.InfoContext(ctx, "skipping post", "post_id", post.ID, "flair", post.Flair)
			stats.Skipped++
			continue
		}
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			outcome, err := p.IngestPost(ctx, post)
			if err != nil {
				logger.ErrorContext(ctx, "failed to ingest post", "post_id", post.ID, "error", err)
			}
			mu.Lock()
			stats.record(outcome, err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logger.InfoContext(ctx, "ingested posts",
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"replaced", stats.Replaced,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, ctx.Err()
}

// Run ingests pages of top posts, following the listing cursor until it
// runs out, a page comes back empty or opts.Pages pages are done.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (RunStats, error) {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}

	var total RunStats
	after := ""
	for page := 0; page < opts.Pages; page++ {
		listing, err := p.source.TopPosts(ctx, reddit.TopQuery{
			Subreddit: opts.Subreddit,
			Window:    opts.Window,
			Limit:     opts.Limit,
			After:     after,
		})
		if err != nil {
			return total, fmt.Errorf("failed to list top posts: %w", err)
		}
		if len(listing.Posts) == 0 {
			break
		}

		stats, err := p.IngestPosts(ctx, listing.Posts)
		total.Add(stats)
		if err != nil {
			return total, err
		}

		if listing.After == "" {
			break
		}
		after = "t3_" + listing.Posts[len(listing.Posts)-1].ID
	}
	return total, nil
}

// Backfill re-ingests stored posts that have no chunks, such as posts
// whose chunks failed to embed in an earlier run.
func (p *Pipeline) Backfill(ctx context.Context) (RunStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	ids, err := p.index.PostsWithoutDocuments(ctx)
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to list posts without chunks: %w", err)
	}
	if len(ids) == 0 {
		return RunStats{}, nil
	}
	logger.InfoContext(ctx, "backfilling posts without chunks", "count", len(ids))

	var failed int
	posts := make([]reddit.Post, 0, len(ids))
	for _, id := range ids {
		post, err := p.source.Post(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return RunStats{Failed: failed}, ctxErr
			}
			logger.ErrorContext(ctx, "failed to fetch post for backfill", "post_id", id, "error", err)
			failed++
			continue
		}
		posts = append(posts, post)
	}

	stats, err := p.IngestPosts(ctx, posts)
	stats.Fetched += failed
	stats.Failed += failed
	return stats, err
}
