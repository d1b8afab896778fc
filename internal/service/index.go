package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingester.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service Ingester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index_service.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service IndexService

import (
	"context"
	"sync/atomic"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
)

// DefaultWindows are the top listings a refresh walks, in order.
var DefaultWindows = []string{"month", "year"}

// Ingester is the ingestion pipeline.
type Ingester interface {
	Run(ctx context.Context, opts indexer.RunOptions) (indexer.RunStats, error)
	Backfill(ctx context.Context) (indexer.RunStats, error)
	CoverageStats(ctx context.Context, embeddingModel string) (*indexer.CoverageStats, error)
}

// IndexConfig selects what a refresh ingests.
type IndexConfig struct {
	Subreddit      string
	Windows        []string
	Limit          int
	Pages          int
	EmbeddingModel string
}

// IndexService keeps the index in sync with the forum.
type IndexService interface {
	// Refresh ingests the configured top listings, then backfills posts
	// without chunks. Only one refresh runs at a time; a concurrent call
	// returns ErrIndexRunning.
	Refresh(ctx context.Context) (indexer.RunStats, error)
	// Start claims the refresh slot and runs a refresh in the background.
	// It returns ErrIndexRunning, without starting anything, while another
	// refresh holds the slot. done, when non-nil, receives the result after
	// the slot is released.
	Start(ctx context.Context, done func(indexer.RunStats, error)) error
	// Stats reports index coverage.
	Stats(ctx context.Context) (*indexer.CoverageStats, error)
}

type indexService struct {
	ingester Ingester
	cfg      IndexConfig
	running  atomic.Bool
}

// NewIndexService creates a new IndexService.
func NewIndexService(ingester Ingester, cfg IndexConfig) IndexService {
	if len(cfg.Windows) == 0 {
		cfg.Windows = DefaultWindows
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	return &indexService{ingester: ingester, cfg: cfg}
}

func (s *indexService) Refresh(ctx context.Context) (indexer.RunStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return indexer.RunStats{}, ErrIndexRunning
	}
	defer s.running.Store(false)
	return s.refresh(ctx)
}

func (s *indexService) Start(ctx context.Context, done func(indexer.RunStats, error)) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrIndexRunning
	}
	go func() {
		stats, err := s.refresh(ctx)
		s.running.Store(false)
		if done != nil {
			done(stats, err)
		}
	}()
	return nil
}

func (s *indexService) refresh(ctx context.Context) (indexer.RunStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var total indexer.RunStats

	for _, window := range s.cfg.Windows {
		stats, err := s.ingester.Run(ctx, indexer.RunOptions{
			Subreddit: s.cfg.Subreddit,
			Window:    window,
			Limit:     s.cfg.Limit,
			Pages:     s.cfg.Pages,
		})
		total.Add(stats)
		if err != nil {
			return total, WrapError(err, "failed to ingest top posts of the "+window)
		}
		logger.InfoContext(ctx, "ingested top posts", "window", window, "inserted", stats.Inserted, "replaced", stats.Replaced, "failed", stats.Failed)
	}

	stats, err := s.ingester.Backfill(ctx)
	total.Add(stats)
	if err != nil {
		return total, WrapError(err, "failed to backfill posts")
	}
	return total, nil
}

func (s *indexService) Stats(ctx context.Context) (*indexer.CoverageStats, error) {
	stats, err := s.ingester.CoverageStats(ctx, s.cfg.EmbeddingModel)
	if err != nil {
		return nil, WrapError(err, "failed to compute coverage stats")
	}
	return stats, nil
}
