package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type wordTokenizer struct{}

func (wordTokenizer) Encode(text string) []int { return make([]int, len(strings.Fields(text))) }

func (wordTokenizer) Decode([]int) string { return "" }

func (wordTokenizer) Count(text string) int { return len(strings.Fields(text)) }

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

// streamOf builds an answer stream replaying deltas. A non-nil failWith
// breaks the connection after the deltas instead of ending the answer.
func streamOf(deltas []string, failWith error) *rag.Stream {
	var b strings.Builder
	for _, d := range deltas {
		fmt.Fprintf(&b, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", d)
	}
	var r io.Reader
	if failWith != nil {
		r = io.MultiReader(strings.NewReader(b.String()), failingReader{err: failWith})
	} else {
		b.WriteString("data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\ndata: [DONE]\n\n")
		r = strings.NewReader(b.String())
	}
	return rag.NewStream(context.Background(), llm.NewChatStream(io.NopCloser(r)), nil, wordTokenizer{})
}
