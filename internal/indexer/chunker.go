package indexer

import (
	"fmt"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
)

// Chunk is a token window of a post body.
type Chunk struct {
	ID      string // Format: "{post_id}_{seq}"
	Seq     int    // Starts at 1
	Content string
	Tokens  int // Token count of Content
}

// Chunker splits text into fixed-size token windows.
type Chunker struct {
	tokenizer llm.Tokenizer
	size      int
	overlap   int
}

// NewChunker creates a Chunker producing windows of size tokens, each
// sharing overlap tokens with the previous one.
func NewChunker(tokenizer llm.Tokenizer, size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{tokenizer: tokenizer, size: size, overlap: overlap}, nil
}

// DocumentBody is the text that gets chunked for a post.
func DocumentBody(title, description, comments string) string {
	return title + "\n" + description + "\n" + comments
}

// Chunk splits body into windows. Every chunk after the first is prefixed
// with the title so it carries the topic of the post on its own.
func (c *Chunker) Chunk(postID, title, body string) []Chunk {
	tokens := c.tokenizer.Encode(body)
	n := len(tokens)
	if n == 0 {
		return nil
	}

	step := c.size - c.overlap
	count := ceilDiv(n, c.size)
	if (count-1)*step+c.size < n {
		// Overlap shortens the stride; add windows until the tail is covered.
		count = ceilDiv(n-c.overlap, step)
	}

	chunks := make([]Chunk, 0, count)
	for seq := 1; seq <= count; seq++ {
		start := (seq - 1) * step
		end := min(start+c.size, n)

		content := c.tokenizer.Decode(tokens[start:end])
		if seq > 1 {
			content = title + "\n" + content
		}
		chunks = append(chunks, Chunk{
			ID:      ChunkID(postID, seq),
			Seq:     seq,
			Content: content,
			Tokens:  c.tokenizer.Count(content),
		})
	}
	return chunks
}

// ChunkID returns the document id of chunk seq of a post.
func ChunkID(postID string, seq int) string {
	return fmt.Sprintf("%s_%d", postID, seq)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
