package rag

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/fusion"
	"github.com/LorenzoPeve/rag-reddit/internal/storage"
)

// Signal names used in RetrievalError.
const (
	SignalVector   = "vector"
	SignalKeyword  = "keyword"
	SignalExact    = "exact"
	SignalMetadata = "metadata"
)

// Searcher provides the ranked retrieval primitives and the metadata join.
type Searcher interface {
	VectorSearch(ctx context.Context, query string, limit int) ([]storage.RankedChunk, error)
	AnyTermSearch(ctx context.Context, query string, limit int) ([]storage.RankedChunk, error)
	AllTermsSearch(ctx context.Context, query string, limit int) ([]storage.RankedChunk, error)
	Hits(ctx context.Context, ids []string) (map[string]storage.ChunkHit, error)
}

// Retriever runs hybrid search: vector, any-term and all-terms rankings fused with RRF.
type Retriever struct {
	searcher Searcher
}

// NewRetriever creates a new Retriever.
func NewRetriever(searcher Searcher) *Retriever {
	return &Retriever{searcher: searcher}
}

// Search returns at most limit sources ordered by fused score.
// The three searches run concurrently and each is asked for limit results.
// The all-terms ranking is the exact signal. Any search failure is returned as
// a *RetrievalError. When all three rankings are empty the result is empty.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]Source, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var vector, keyword, exact []storage.RankedChunk
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if vector, err = r.searcher.VectorSearch(gctx, query, limit); err != nil {
			return &RetrievalError{Signal: SignalVector, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if keyword, err = r.searcher.AnyTermSearch(gctx, query, limit); err != nil {
			return &RetrievalError{Signal: SignalKeyword, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if exact, err = r.searcher.AllTermsSearch(gctx, query, limit); err != nil {
			return &RetrievalError{Signal: SignalExact, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "hybrid search failed", "error", err)
		return nil, err
	}

	fused := fusion.Fuse(vector, keyword, exact, fusion.ConstantsFor(exact))
	if len(fused) > limit {
		fused = fused[:limit]
	}

	logger.DebugContext(ctx, "hybrid search ranked",
		"vector", len(vector),
		"keyword", len(keyword),
		"exact", len(exact),
		"fused", len(fused),
	)

	if len(fused) == 0 {
		return []Source{}, nil
	}

	ids := make([]string, len(fused))
	for i, f := range fused {
		ids[i] = f.ChunkID
	}
	hits, err := r.searcher.Hits(ctx, ids)
	if err != nil {
		return nil, &RetrievalError{Signal: SignalMetadata, Err: err}
	}

	sources := make([]Source, 0, len(fused))
	for _, f := range fused {
		hit, ok := hits[f.ChunkID]
		if !ok {
			// Vector points can briefly outlive their rows while a post is replaced.
			logger.WarnContext(ctx, "ranked chunk not found in storage", "chunk_id", f.ChunkID)
			continue
		}
		sources = append(sources, Source{
			ChunkID:   hit.ChunkID,
			PostID:    hit.PostID,
			Title:     hit.Title,
			Permalink: hit.Permalink,
			Score:     f.Score,
			Content:   hit.Content,
		})
	}
	return sources, nil
}
