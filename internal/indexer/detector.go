package indexer

import (
	"context"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
)

// Detector decides whether a stored post differs from its live version.
type Detector struct {
	index  Index
	source Source
}

// NewDetector creates a new Detector.
func NewDetector(index Index, source Source) *Detector {
	return &Detector{index: index, source: source}
}

// IsModified reports whether the live post has changed since it was stored.
// The comment count is compared first; the comment tree is only fetched and
// fingerprinted when the counts match. A post that was never stored yields
// a storage.NotFoundError.
func (d *Detector) IsModified(ctx context.Context, postID string) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stored, err := d.index.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	live, err := d.source.Post(ctx, postID)
	if err != nil {
		return false, err
	}
	if live.NumComments != stored.NumComments {
		logger.DebugContext(ctx, "comment count changed", "post_id", postID, "stored", stored.NumComments, "live", live.NumComments)
		return true, nil
	}

	comments, err := d.source.Comments(ctx, postID)
	if err != nil {
		return false, err
	}
	hash := Fingerprint(live.Title, live.Selftext, comments)
	if hash != stored.ContentHash {
		logger.DebugContext(ctx, "content changed", "post_id", postID, "stored_hash", stored.ContentHash, "live_hash", hash)
		return true, nil
	}
	return false, nil
}
