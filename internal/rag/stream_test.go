package rag

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
)

func TestStream_CloseBeforeDone(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader(sse([]string{"one ", "two"}, 0))}
	stream := NewStream(context.Background(), llm.NewChatStream(body), nil, wordTokenizer{})

	require.True(t, stream.Next())
	assert.Equal(t, "one ", stream.Text())

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())

	assert.True(t, body.closed.Load())
	assert.Equal(t, StateFailed, stream.State())
	assert.ErrorIs(t, stream.Err(), ErrStreamClosed)
	assert.False(t, stream.Next())
}

func TestStream_CloseAfterDone(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader(sse([]string{"answer"}, 0))}
	stream := NewStream(context.Background(), llm.NewChatStream(body), nil, wordTokenizer{})

	for stream.Next() {
	}
	require.NoError(t, stream.Close())

	assert.Equal(t, StateDone, stream.State())
	assert.NoError(t, stream.Err())
	assert.Equal(t, 1, stream.OutputTokens())
}

func TestStream_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := NewStream(ctx, llm.NewChatStream(pr), nil, wordTokenizer{})

	go func() {
		_, _ = pw.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n"))
	}()

	require.True(t, stream.Next())
	assert.Equal(t, "partial", stream.Text())

	cancel()

	assert.False(t, stream.Next())
	assert.Equal(t, StateFailed, stream.State())
	assert.True(t, errors.Is(stream.Err(), context.Canceled))
	assert.NoError(t, stream.Close())
}

func TestStream_EndsWithoutDone(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"cut\"}}]}\n\n")}
	stream := NewStream(context.Background(), llm.NewChatStream(body), nil, wordTokenizer{})

	require.True(t, stream.Next())
	assert.False(t, stream.Next())
	assert.Equal(t, StateDone, stream.State())
	assert.NoError(t, stream.Err())
	assert.Empty(t, stream.Text())
}

func TestStream_Truncated(t *testing.T) {
	tests := []struct {
		name          string
		reason        string
		wantTruncated bool
	}{
		{name: "stopped normally", reason: "stop"},
		{name: "hit output limit", reason: "length", wantTruncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "data: {\"choices\":[{\"delta\":{\"content\":\"partial answer\"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"" + tt.reason + "\"}]}\n\n" +
				"data: [DONE]\n\n"
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			body := &trackedBody{Reader: strings.NewReader(raw)}
			stream := newStream(context.Background(), llm.NewChatStream(body), nil, wordTokenizer{}, logger)

			for stream.Next() {
			}

			assert.Equal(t, StateDone, stream.State())
			assert.Equal(t, tt.wantTruncated, stream.Truncated())
			assert.Contains(t, logs.String(), "finish_reason="+tt.reason)
			assert.Equal(t, tt.wantTruncated, strings.Contains(logs.String(), "answer truncated at output token limit"))
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateReceived, "received"},
		{StateRetrieved, "retrieved"},
		{StateContextBuilt, "context_built"},
		{StateGenerating, "generating"},
		{StateStreaming, "streaming"},
		{StateDone, "done"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
