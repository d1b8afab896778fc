package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_permalink_store.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service PermalinkStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_lookup_service.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service LookupService

import (
	"context"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
)

// PermalinkStore resolves post ids to permalinks.
type PermalinkStore interface {
	Permalinks(ctx context.Context, ids []string) (map[string]string, error)
}

// LookupService resolves cited post ids.
type LookupService interface {
	// FindURLs maps each known post id to its permalink. Unknown ids are omitted.
	FindURLs(ctx context.Context, ids []string) (map[string]string, error)
}

type lookupService struct {
	store PermalinkStore
}

// NewLookupService creates a new LookupService.
func NewLookupService(store PermalinkStore) LookupService {
	return &lookupService{store: store}
}

func (s *lookupService) FindURLs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	urls, err := s.store.Permalinks(ctx, ids)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to look up permalinks", "count", len(ids), "error", err)
		return nil, WrapError(err, "failed to look up permalinks")
	}
	if urls == nil {
		urls = map[string]string{}
	}
	return urls, nil
}
