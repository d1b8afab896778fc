package rag

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/LorenzoPeve/rag-reddit/internal/storage"
)

type fakeSearcher struct {
	vector, keyword, exact []storage.RankedChunk
	hits                   map[string]storage.ChunkHit

	vectorErr, keywordErr, exactErr, hitsErr error

	calls     atomic.Int32
	hitsCalls atomic.Int32
	limits    [3]int
}

func (f *fakeSearcher) VectorSearch(_ context.Context, _ string, limit int) ([]storage.RankedChunk, error) {
	f.calls.Add(1)
	f.limits[0] = limit
	return f.vector, f.vectorErr
}

func (f *fakeSearcher) AnyTermSearch(_ context.Context, _ string, limit int) ([]storage.RankedChunk, error) {
	f.calls.Add(1)
	f.limits[1] = limit
	return f.keyword, f.keywordErr
}

func (f *fakeSearcher) AllTermsSearch(_ context.Context, _ string, limit int) ([]storage.RankedChunk, error) {
	f.calls.Add(1)
	f.limits[2] = limit
	return f.exact, f.exactErr
}

func (f *fakeSearcher) Hits(_ context.Context, ids []string) (map[string]storage.ChunkHit, error) {
	f.hitsCalls.Add(1)
	if f.hitsErr != nil {
		return nil, f.hitsErr
	}
	out := make(map[string]storage.ChunkHit)
	for _, id := range ids {
		if h, ok := f.hits[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func hit(chunkID, postID string) storage.ChunkHit {
	return storage.ChunkHit{
		ChunkID:   chunkID,
		PostID:    postID,
		Title:     "Title " + postID,
		Permalink: "https://www.reddit.com/r/dataengineering/comments/" + postID + "/",
		Content:   "content of " + chunkID,
	}
}

func TestRetriever_Search(t *testing.T) {
	searcher := &fakeSearcher{
		vector:  []storage.RankedChunk{{ChunkID: "a_1", Rank: 1}, {ChunkID: "b_1", Rank: 2}, {ChunkID: "c_1", Rank: 3}},
		keyword: []storage.RankedChunk{{ChunkID: "c_1", Rank: 1}},
		exact:   []storage.RankedChunk{{ChunkID: "c_1", Rank: 1}},
		hits: map[string]storage.ChunkHit{
			"a_1": hit("a_1", "a"),
			"b_1": hit("b_1", "b"),
			"c_1": hit("c_1", "c"),
		},
	}
	r := NewRetriever(searcher)

	sources, err := r.Search(context.Background(), "delta lake", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if searcher.calls.Load() != 3 {
		t.Errorf("searches = %d, want 3", searcher.calls.Load())
	}
	if searcher.limits != [3]int{2, 2, 2} {
		t.Errorf("limits = %v, want each search asked for 2", searcher.limits)
	}

	if len(sources) != 2 {
		t.Fatalf("Search() returned %d sources, want 2", len(sources))
	}
	if sources[0].ChunkID != "c_1" || sources[1].ChunkID != "a_1" {
		t.Errorf("order = [%s %s], want [c_1 a_1]", sources[0].ChunkID, sources[1].ChunkID)
	}

	wantC := 1.0/63 + 1.0/61 + 1.0/181
	if math.Abs(sources[0].Score-wantC) > 1e-12 {
		t.Errorf("c_1 score = %v, want %v", sources[0].Score, wantC)
	}
	if sources[0].Title != "Title c" || sources[0].Permalink == "" || sources[0].Content != "content of c_1" {
		t.Errorf("c_1 metadata = %+v", sources[0])
	}
}

func TestRetriever_Search_VectorOnly(t *testing.T) {
	searcher := &fakeSearcher{
		vector: []storage.RankedChunk{{ChunkID: "x_1", Rank: 3}},
		hits:   map[string]storage.ChunkHit{"x_1": hit("x_1", "x")},
	}

	sources, err := NewRetriever(searcher).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(sources) != 1 || math.Abs(sources[0].Score-1.0/63) > 1e-12 {
		t.Errorf("Search() = %+v, want x_1 scored 1/63", sources)
	}
}

func TestRetriever_Search_Empty(t *testing.T) {
	searcher := &fakeSearcher{}

	sources, err := NewRetriever(searcher).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if sources == nil || len(sources) != 0 {
		t.Errorf("Search() = %v, want empty non-nil slice", sources)
	}
	if searcher.hitsCalls.Load() != 0 {
		t.Error("Hits() should not be called for an empty ranking")
	}
}

func TestRetriever_Search_SkipsMissingRows(t *testing.T) {
	searcher := &fakeSearcher{
		vector: []storage.RankedChunk{{ChunkID: "gone_1", Rank: 1}, {ChunkID: "a_1", Rank: 2}},
		hits:   map[string]storage.ChunkHit{"a_1": hit("a_1", "a")},
	}

	sources, err := NewRetriever(searcher).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(sources) != 1 || sources[0].ChunkID != "a_1" {
		t.Errorf("Search() = %+v, want only a_1", sources)
	}
}

func TestRetriever_Search_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		searcher   *fakeSearcher
		wantSignal string
	}{
		{name: "vector", searcher: &fakeSearcher{vectorErr: boom}, wantSignal: SignalVector},
		{name: "keyword", searcher: &fakeSearcher{keywordErr: boom}, wantSignal: SignalKeyword},
		{name: "exact", searcher: &fakeSearcher{exactErr: boom}, wantSignal: SignalExact},
		{
			name: "metadata",
			searcher: &fakeSearcher{
				vector:  []storage.RankedChunk{{ChunkID: "a_1", Rank: 1}},
				hitsErr: boom,
			},
			wantSignal: SignalMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetriever(tt.searcher).Search(context.Background(), "q", 5)

			var retrievalErr *RetrievalError
			if !errors.As(err, &retrievalErr) {
				t.Fatalf("Search() error = %v, want *RetrievalError", err)
			}
			if retrievalErr.Signal != tt.wantSignal {
				t.Errorf("Signal = %q, want %q", retrievalErr.Signal, tt.wantSignal)
			}
			if !errors.Is(err, boom) {
				t.Error("RetrievalError should unwrap to the search error")
			}
		})
	}
}
