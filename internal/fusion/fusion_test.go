package fusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorenzoPeve/rag-reddit/internal/storage"
)

const epsilon = 1e-12

func ranked(ids ...string) []storage.RankedChunk {
	out := make([]storage.RankedChunk, len(ids))
	for i, id := range ids {
		out[i] = storage.RankedChunk{ChunkID: id, Rank: i + 1}
	}
	return out
}

func TestConstantsFor(t *testing.T) {
	tests := []struct {
		name  string
		exact []storage.RankedChunk
		want  Constants
	}{
		{name: "no exact matches", exact: nil, want: Constants{Vector: 60, Keyword: 60, Exact: 60}},
		{name: "empty exact matches", exact: []storage.RankedChunk{}, want: Constants{Vector: 60, Keyword: 60, Exact: 60}},
		{name: "all-terms matches boost any-term signal", exact: ranked("a"), want: Constants{Vector: 60, Keyword: 180, Exact: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstantsFor(tt.exact))
		})
	}
}

func TestFuse_VectorOnlyFallback(t *testing.T) {
	vector := []storage.RankedChunk{{ChunkID: "x", Rank: 3}}

	got := Fuse(vector, nil, nil, ConstantsFor(nil))

	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ChunkID)
	assert.InDelta(t, 1.0/63, got[0].Score, epsilon)
}

func TestFuse_BoostedKeywordWeighting(t *testing.T) {
	vector := ranked("x")
	keyword := ranked("x")
	exact := ranked("y")

	got := Fuse(vector, keyword, exact, ConstantsFor(exact))

	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].ChunkID)
	assert.InDelta(t, 1.0/61+1.0/181, got[0].Score, epsilon)
	assert.Equal(t, "y", got[1].ChunkID)
	assert.InDelta(t, 1.0/61, got[1].Score, epsilon)
}

func TestFuse_AnyTermOnlyChunkIsDeweighted(t *testing.T) {
	keyword := ranked("a", "b")
	exact := ranked("b")

	got := Fuse(nil, keyword, exact, ConstantsFor(exact))

	scores := make(map[string]float64, len(got))
	for _, s := range got {
		scores[s.ChunkID] = s.Score
	}
	require.Len(t, scores, 2)
	assert.InDelta(t, 1.0/181, scores["a"], epsilon)
	assert.InDelta(t, 1.0/182+1.0/61, scores["b"], epsilon)
	assert.Equal(t, "b", got[0].ChunkID)
}

func TestFuse_AnyTermUnboostedWithoutAllTermsMatches(t *testing.T) {
	got := Fuse(nil, ranked("a"), nil, ConstantsFor(nil))

	require.Len(t, got, 1)
	assert.InDelta(t, 1.0/61, got[0].Score, epsilon)
}

func TestFuse_AllEmpty(t *testing.T) {
	got := Fuse(nil, []storage.RankedChunk{}, nil, ConstantsFor(nil))
	assert.Empty(t, got)
}

func TestFuse_Ordering(t *testing.T) {
	vector := ranked("a", "b", "c")
	keyword := ranked("c", "d")
	exact := ranked("c")

	got := Fuse(vector, keyword, exact, ConstantsFor(exact))

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ChunkID
	}
	// a = 1/61, b = 1/62, d = 1/182 with the any-term list boosted.
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids)

	wantC := 1.0/63 + 1.0/181 + 1.0/61
	assert.InDelta(t, 1.0/182, got[3].Score, epsilon)
	assert.InDelta(t, wantC, got[0].Score, epsilon)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestFuse_TiesKeepFirstSeenOrder(t *testing.T) {
	got := Fuse(ranked("v"), ranked("k"), nil, ConstantsFor(nil))

	require.Len(t, got, 2)
	assert.Equal(t, "v", got[0].ChunkID)
	assert.Equal(t, "k", got[1].ChunkID)
	assert.True(t, math.Abs(got[0].Score-got[1].Score) < epsilon)
}
