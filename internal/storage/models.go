package storage

import "time"

// Post is a forum submission as stored in the posts table.
type Post struct {
	ID            string // External id, immutable
	Title         string
	Description   string // Self text; empty for link and image posts
	Score         int
	Upvotes       int
	Downvotes     int
	Tag           string // Link flair, empty when unset
	NumComments   int
	Permalink     string
	ContentHash   string // Fingerprint over title, description and comments
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// Document is one chunk of a post, as stored in the documents table.
type Document struct {
	ID      string // Format: "{post_id}_{chunk_id}"
	PostID  string
	ChunkID int // Starts at 1
	Content string
}

// RankedChunk is one entry of a ranked retrieval list. Rank 1 is best.
type RankedChunk struct {
	ChunkID string
	Rank    int
}

// ChunkHit is a chunk joined with the metadata of its post.
type ChunkHit struct {
	ChunkID   string
	PostID    string
	Title     string
	Permalink string
	Content   string
}
