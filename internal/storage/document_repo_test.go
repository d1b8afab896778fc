package storage

import (
	"fmt"
	"testing"
)

// seedDocuments inserts one post per document, keyed by the document's post ID.
func seedDocuments(t *testing.T, posts *PostRepo, docs *DocumentRepo, documents []Document) {
	t.Helper()

	seen := make(map[string]bool)
	for i := range documents {
		doc := documents[i]
		if !seen[doc.PostID] {
			insertTestPost(t, posts, doc.PostID)
			seen[doc.PostID] = true
		}
		if err := docs.Insert(t.Context(), &doc); err != nil {
			t.Fatalf("Insert(%s) error = %v", doc.ID, err)
		}
	}
}

func TestNewDocumentRepo(t *testing.T) {
	db := newTestDB(t)

	repo := NewDocumentRepo(db)
	if repo == nil {
		t.Fatal("NewDocumentRepo() returned nil")
	}
	if repo.db != db {
		t.Error("NewDocumentRepo() db not set correctly")
	}
}

func TestDocumentRepo_Insert(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)
	ctx := t.Context()

	insertTestPost(t, posts, "p1")

	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{
			name: "first chunk",
			doc:  Document{ID: "p1_1", PostID: "p1", ChunkID: 1, Content: "first"},
		},
		{
			name: "second chunk",
			doc:  Document{ID: "p1_2", PostID: "p1", ChunkID: 2, Content: "Title p1\nsecond"},
		},
		{
			name:    "duplicate ID",
			doc:     Document{ID: "p1_1", PostID: "p1", ChunkID: 3, Content: "dup"},
			wantErr: true,
		},
		{
			name:    "duplicate chunk number",
			doc:     Document{ID: "p1_x", PostID: "p1", ChunkID: 2, Content: "dup"},
			wantErr: true,
		},
		{
			name:    "missing post",
			doc:     Document{ID: "zz_1", PostID: "zz", ChunkID: 1, Content: "orphan"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := docs.Insert(ctx, &tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Error("Insert() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Insert() unexpected error: %v", err)
			}
		})
	}

	if n, err := docs.CountByPost(ctx, "p1"); err != nil || n != 2 {
		t.Errorf("CountByPost() = %d, %v; want 2", n, err)
	}
}

func TestDocumentRepo_ListIDsByPost_OrderedByChunk(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)

	seedDocuments(t, posts, docs, []Document{
		{ID: "p1_10", PostID: "p1", ChunkID: 10, Content: "ten"},
		{ID: "p1_2", PostID: "p1", ChunkID: 2, Content: "two"},
		{ID: "p1_1", PostID: "p1", ChunkID: 1, Content: "one"},
	})

	ids, err := docs.ListIDsByPost(t.Context(), "p1")
	if err != nil {
		t.Fatalf("ListIDsByPost() error = %v", err)
	}
	want := []string{"p1_1", "p1_2", "p1_10"}
	if len(ids) != len(want) {
		t.Fatalf("ListIDsByPost() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ListIDsByPost()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	empty, err := docs.ListIDsByPost(t.Context(), "nope")
	if err != nil || len(empty) != 0 {
		t.Errorf("ListIDsByPost(nope) = %v, %v; want empty", empty, err)
	}
}

func TestDocumentRepo_Hits(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)

	seedDocuments(t, posts, docs, []Document{
		{ID: "p1_1", PostID: "p1", ChunkID: 1, Content: "chunk one"},
		{ID: "p2_1", PostID: "p2", ChunkID: 1, Content: "chunk two"},
	})

	hits, err := docs.Hits(t.Context(), []string{"p2_1", "missing", "p1_1"})
	if err != nil {
		t.Fatalf("Hits() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Hits() returned %d entries, want 2", len(hits))
	}

	hit := hits["p2_1"]
	if hit.PostID != "p2" || hit.Title != "Title p2" || hit.Content != "chunk two" {
		t.Errorf("Hits()[p2_1] = %+v", hit)
	}
	if hit.Permalink != "https://www.reddit.com/r/dataengineering/comments/p2/" {
		t.Errorf("Hits()[p2_1].Permalink = %q", hit.Permalink)
	}

	none, err := docs.Hits(t.Context(), nil)
	if err != nil || len(none) != 0 {
		t.Errorf("Hits(nil) = %v, %v; want empty", none, err)
	}
}

func TestDocumentRepo_Hits_AcrossBatches(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)

	seedDocuments(t, posts, docs, []Document{
		{ID: "p1_1", PostID: "p1", ChunkID: 1, Content: "chunk one"},
		{ID: "p2_1", PostID: "p2", ChunkID: 1, Content: "chunk two"},
	})

	ids := []string{"p1_1"}
	for i := 0; i < 3*maxBatchIDs; i++ {
		ids = append(ids, fmt.Sprintf("missing_%d", i))
	}
	ids = append(ids, "p2_1")

	hits, err := docs.Hits(t.Context(), ids)
	if err != nil {
		t.Fatalf("Hits() error = %v", err)
	}
	if len(hits) != 2 || hits["p1_1"].Content != "chunk one" || hits["p2_1"].Content != "chunk two" {
		t.Errorf("Hits() = %+v, want p1_1 and p2_1", hits)
	}
}

func TestDocumentRepo_TextSearch(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)

	seedDocuments(t, posts, docs, []Document{
		{ID: "a_1", PostID: "a", ChunkID: 1, Content: "How to partition Delta tables by date"},
		{ID: "b_1", PostID: "b", ChunkID: 1, Content: "Spark streaming checkpoint recovery"},
		{ID: "c_1", PostID: "c", ChunkID: 1, Content: "Delta lake vs Iceberg for streaming workloads"},
		{ID: "d_1", PostID: "d", ChunkID: 1, Content: "Interview prep for junior roles"},
	})

	tests := []struct {
		name   string
		search func(query string, limit int) ([]RankedChunk, error)
		query  string
		limit  int
		want   []RankedChunk
	}{
		{
			name:   "any term ranks full coverage first and ties share a rank",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AnyTermSearch(t.Context(), q, l) },
			query:  "Delta streaming",
			limit:  10,
			want:   []RankedChunk{{ChunkID: "c_1", Rank: 1}, {ChunkID: "a_1", Rank: 2}, {ChunkID: "b_1", Rank: 2}},
		},
		{
			name:   "any term respects limit",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AnyTermSearch(t.Context(), q, l) },
			query:  "delta streaming",
			limit:  1,
			want:   []RankedChunk{{ChunkID: "c_1", Rank: 1}},
		},
		{
			name:   "all terms requires every word",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AllTermsSearch(t.Context(), q, l) },
			query:  "delta streaming",
			limit:  10,
			want:   []RankedChunk{{ChunkID: "c_1", Rank: 1}},
		},
		{
			name:   "stemming matches inflections",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AllTermsSearch(t.Context(), q, l) },
			query:  "partitioning",
			limit:  10,
			want:   []RankedChunk{{ChunkID: "a_1", Rank: 1}},
		},
		{
			name:   "no document has every word",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AllTermsSearch(t.Context(), q, l) },
			query:  "spark iceberg",
			limit:  10,
			want:   []RankedChunk{},
		},
		{
			name:   "no match",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AnyTermSearch(t.Context(), q, l) },
			query:  "kubernetes",
			limit:  10,
			want:   []RankedChunk{},
		},
		{
			name:   "only stopwords",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AnyTermSearch(t.Context(), q, l) },
			query:  "what is the",
			limit:  10,
			want:   []RankedChunk{},
		},
		{
			name:   "query syntax is treated as text",
			search: func(q string, l int) ([]RankedChunk, error) { return docs.AnyTermSearch(t.Context(), q, l) },
			query:  `"interview* NEAR(prep) -junior`,
			limit:  10,
			want:   []RankedChunk{{ChunkID: "d_1", Rank: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.search(tt.query, tt.limit)
			if err != nil {
				t.Fatalf("search error = %v", err)
			}
			if got == nil {
				t.Fatal("search returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("search = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("search[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDocumentRepo_ListContents(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepo(db)
	docs := NewDocumentRepo(db)

	seedDocuments(t, posts, docs, []Document{
		{ID: "p1_1", PostID: "p1", ChunkID: 1, Content: "alpha"},
		{ID: "p1_2", PostID: "p1", ChunkID: 2, Content: "beta"},
	})

	contents, err := docs.ListContents(t.Context())
	if err != nil {
		t.Fatalf("ListContents() error = %v", err)
	}
	if len(contents) != 2 {
		t.Errorf("ListContents() = %v, want 2 entries", contents)
	}
}
