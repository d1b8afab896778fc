package rag

// Source is a retrieved chunk with the metadata of its post.
type Source struct {
	ChunkID   string  `json:"chunk_id"`
	PostID    string  `json:"post_id"`
	Title     string  `json:"title"`
	Permalink string  `json:"permalink"`
	Score     float64 `json:"score"`
	Content   string  `json:"content"`
}

// State is a step of answering one question.
type State int

const (
	StateReceived State = iota
	StateRetrieved
	StateContextBuilt
	StateGenerating
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateRetrieved:
		return "retrieved"
	case StateContextBuilt:
		return "context_built"
	case StateGenerating:
		return "generating"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Citation maps a citation number to the post it refers to.
type Citation struct {
	Number int
	Title  string
	PostID string
}

// Answer is a generated answer split into its parts.
type Answer struct {
	// Body is the answer text without the citation block and follow-up questions.
	Body      string
	Citations []Citation
	FollowUps []string
}
