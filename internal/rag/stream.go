package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
)

// Stream yields the text increments of an answer as the provider produces them.
// It is forward-only and cannot be restarted. Next, Text and Err must be called
// from one goroutine; Close may be called from any goroutine, any number of times.
type Stream struct {
	ctx       context.Context
	chat      *llm.ChatStream
	sources   []Source
	tokenizer llm.Tokenizer
	logger    *slog.Logger
	stopClose func() bool

	text         string
	outputTokens int

	mu    sync.Mutex
	state State
	err   error
}

func newStream(ctx context.Context, chat *llm.ChatStream, sources []Source, tokenizer llm.Tokenizer, logger *slog.Logger) *Stream {
	s := &Stream{
		ctx:       ctx,
		chat:      chat,
		sources:   sources,
		tokenizer: tokenizer,
		logger:    logger,
		state:     StateGenerating,
	}
	s.stopClose = context.AfterFunc(ctx, func() {
		_ = s.chat.Close()
	})
	return s
}

// NewStream wraps a provider stream. Engine.Answer is the usual way to obtain one.
func NewStream(ctx context.Context, chat *llm.ChatStream, sources []Source, tokenizer llm.Tokenizer) *Stream {
	return newStream(ctx, chat, sources, tokenizer, slog.Default())
}

// Next advances to the next text increment. It returns false when the answer
// is complete or failed; Err distinguishes the two. The provider connection is
// released once Next returns false.
func (s *Stream) Next() bool {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == StateDone || state == StateFailed {
		return false
	}

	if s.chat.Next() {
		s.text = s.chat.Delta()
		s.outputTokens += s.tokenizer.Count(s.text)
		if state == StateGenerating {
			s.setState(StateStreaming, nil)
			transition(s.ctx, s.logger, StateStreaming)
		}
		return true
	}

	s.text = ""
	err := s.chat.Err()
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("answer interrupted: %w", ctxErr)
	}
	if usage := s.chat.Usage(); usage.CompletionTokens > 0 {
		s.outputTokens = usage.CompletionTokens
	}

	if err != nil {
		s.setState(StateFailed, err)
		transition(s.ctx, s.logger, StateFailed, "error", err, "output_tokens", s.outputTokens)
	} else {
		reason := s.chat.FinishReason()
		if reason == llm.FinishReasonLength {
			s.logger.WarnContext(s.ctx, "answer truncated at output token limit", "output_tokens", s.outputTokens)
		}
		s.setState(StateDone, nil)
		transition(s.ctx, s.logger, StateDone, "output_tokens", s.outputTokens, "sources", len(s.sources), "finish_reason", reason)
	}
	s.release()
	return false
}

// Text returns the increment produced by the last successful Next.
func (s *Stream) Text() string {
	return s.text
}

// Err returns the error that ended the stream, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the current state of the answer.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OutputTokens returns the number of tokens generated so far. Once the
// stream is done it is the provider's count when the provider reports one.
func (s *Stream) OutputTokens() int {
	return s.outputTokens
}

// Truncated reports whether the provider stopped the answer at its output
// token limit. It is meaningful once Next has returned false.
func (s *Stream) Truncated() bool {
	return s.chat.FinishReason() == llm.FinishReasonLength
}

// Sources returns the sources placed in the prompt, in ranked order.
func (s *Stream) Sources() []Source {
	return s.sources
}

// Close releases the provider connection. Closing before the answer is
// complete marks the stream failed with ErrStreamClosed.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.state != StateDone && s.state != StateFailed {
		s.state = StateFailed
		s.err = ErrStreamClosed
	}
	s.mu.Unlock()
	return s.release()
}

func (s *Stream) release() error {
	s.stopClose()
	return s.chat.Close()
}

func (s *Stream) setState(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	if err != nil {
		s.err = err
	}
}
