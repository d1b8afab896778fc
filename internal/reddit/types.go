package reddit

import (
	"bytes"
	"encoding/json"
	"time"
)

// WebURL is prefixed to permalinks to build browser links.
const WebURL = "https://www.reddit.com"

// Post is a submission as returned by the listing endpoints.
type Post struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"` // Fullname, "t3_" + ID
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	Ups         int     `json:"ups"`
	Downs       int     `json:"downs"`
	Flair       string  `json:"link_flair_text"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
}

// CreatedAt returns the creation time in UTC.
func (p Post) CreatedAt() time.Time {
	return time.Unix(int64(p.CreatedUTC), 0).UTC()
}

// URL returns the browser link of the post.
func (p Post) URL() string {
	return WebURL + p.Permalink
}

// Listing is one page of posts.
type Listing struct {
	Posts []Post
	// After is the fullname to pass as TopQuery.After for the next page.
	// Empty on the last page.
	After string
}

// TopQuery selects a page of top posts.
type TopQuery struct {
	Subreddit string
	Window    string // hour, day, week, month, year or all
	Limit     int
	After     string
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		Children []thing `json:"children"`
		After    string  `json:"after"`
	} `json:"data"`
}

type comment struct {
	Body    string  `json:"body"`
	Replies replies `json:"replies"`
}

// replies is a listing of child comments. Reddit sends an empty string
// instead of a listing when a comment has no replies.
type replies struct {
	listing
}

func (r *replies) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil
	}
	return json.Unmarshal(data, &r.listing)
}
