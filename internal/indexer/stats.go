package indexer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// CoverageStats describes the state of the index.
type CoverageStats struct {
	// Posts is the number of stored posts.
	Posts int `json:"posts"`
	// PostsWithoutChunks is the number of posts waiting for a backfill.
	PostsWithoutChunks int `json:"posts_without_chunks"`
	// Chunks is the number of stored chunks.
	Chunks int `json:"chunks"`
	// ChunkTokenStats describes the token counts of stored chunks.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// IndexVersion identifies the chunking parameters and embedding model
	// the index was built with.
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// CoverageStats computes index coverage from the stored posts and chunks.
func (p *Pipeline) CoverageStats(ctx context.Context, embeddingModel string) (*CoverageStats, error) {
	posts, err := p.index.CountPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	empty, err := p.index.PostsWithoutDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts without chunks: %w", err)
	}

	contents, err := p.index.DocumentContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	counts := make([]int, len(contents))
	for i, content := range contents {
		counts[i] = p.chunker.tokenizer.Count(content)
	}

	return &CoverageStats{
		Posts:              posts,
		PostsWithoutChunks: len(empty),
		Chunks:             len(contents),
		ChunkTokenStats:    computeTokenStats(counts),
		IndexVersion:       p.indexVersion(embeddingModel),
	}, nil
}

func (p *Pipeline) indexVersion(embeddingModel string) string {
	input := fmt.Sprintf("%s|size=%d|overlap=%d", embeddingModel, p.chunker.size, p.chunker.overlap)
	return fmt.Sprintf("%016x", xxhash.Sum64String(input))
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
