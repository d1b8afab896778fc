package llm

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Encodings ship with the binary so tokenizing never touches the network.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Tokenizer converts text to and from model tokens.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
	Count(text string) int
}

// BPETokenizer is a Tokenizer backed by a tiktoken encoding.
type BPETokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenizer loads the named encoding, e.g. "cl100k_base".
func NewTokenizer(encoding string) (*BPETokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer encoding %q: %w", encoding, err)
	}
	return &BPETokenizer{encoding: enc}, nil
}

// Encode returns the tokens of text. Special tokens are treated as plain text.
func (t *BPETokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

// Decode returns the text for tokens.
func (t *BPETokenizer) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}

// Count returns the number of tokens in text.
func (t *BPETokenizer) Count(text string) int {
	return len(t.Encode(text))
}
