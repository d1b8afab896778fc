// Package fusion merges ranked retrieval lists with weighted reciprocal rank fusion.
package fusion

import (
	"sort"

	"github.com/LorenzoPeve/rag-reddit/internal/storage"
)

const (
	// DefaultK is the reciprocal rank constant for every signal.
	DefaultK = 60
	// KeywordBoost multiplies the any-term keyword constant when the
	// all-terms list has matches.
	KeywordBoost = 3
)

// Constants holds the per-signal k in 1/(k + rank).
type Constants struct {
	Vector  float64
	Keyword float64
	Exact   float64
}

// ConstantsFor returns DefaultK for every signal, except that the any-term
// keyword signal uses DefaultK*KeywordBoost when the all-terms list exact has
// at least one match. The all-terms signal itself always stays at DefaultK.
func ConstantsFor(exact []storage.RankedChunk) Constants {
	c := Constants{Vector: DefaultK, Keyword: DefaultK, Exact: DefaultK}
	if len(exact) > 0 {
		c.Keyword = DefaultK * KeywordBoost
	}
	return c
}

// Scored is a fused result.
type Scored struct {
	ChunkID string
	Score   float64
}

// Fuse scores every chunk as the sum of 1/(k + rank) over the lists it appears in.
// A chunk missing from a list contributes nothing for that list, and so does an
// empty list. Results are sorted by descending score; ties keep the order in
// which chunks were first seen across vector, keyword, then exact.
// Fusing three empty lists yields an empty result.
func Fuse(vector, keyword, exact []storage.RankedChunk, c Constants) []Scored {
	scores := make(map[string]float64)
	var order []string

	add := func(list []storage.RankedChunk, k float64) {
		for _, r := range list {
			if _, seen := scores[r.ChunkID]; !seen {
				order = append(order, r.ChunkID)
			}
			scores[r.ChunkID] += 1 / (k + float64(r.Rank))
		}
	}
	add(vector, c.Vector)
	add(keyword, c.Keyword)
	add(exact, c.Exact)

	fused := make([]Scored, len(order))
	for i, id := range order {
		fused[i] = Scored{ChunkID: id, Score: scores[id]}
	}
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})
	return fused
}
