package rag

import (
	"context"
	"log/slog"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/llm"
)

const (
	// DefaultLimit is the number of sources placed in the prompt.
	DefaultLimit = 5
	// DefaultPromptTokenLimit is the ceiling on system prompt plus user prompt tokens.
	DefaultPromptTokenLimit = 100_000
)

// SourceRetriever finds the sources for a question.
type SourceRetriever interface {
	Search(ctx context.Context, query string, limit int) ([]Source, error)
}

// ChatStreamer opens a streamed chat completion.
type ChatStreamer interface {
	StreamChat(ctx context.Context, messages []llm.Message, params llm.ChatParams) (*llm.ChatStream, error)
}

// Options tunes an Engine. Zero values fall back to the defaults.
type Options struct {
	Limit            int
	PromptTokenLimit int
}

// Engine answers questions from retrieved posts.
type Engine struct {
	retriever        SourceRetriever
	chat             ChatStreamer
	tokenizer        llm.Tokenizer
	limit            int
	promptTokenLimit int
}

// NewEngine creates a new Engine.
func NewEngine(retriever SourceRetriever, chat ChatStreamer, tokenizer llm.Tokenizer, opts Options) *Engine {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.PromptTokenLimit <= 0 {
		opts.PromptTokenLimit = DefaultPromptTokenLimit
	}
	return &Engine{
		retriever:        retriever,
		chat:             chat,
		tokenizer:        tokenizer,
		limit:            opts.Limit,
		promptTokenLimit: opts.PromptTokenLimit,
	}
}

// Answer retrieves sources for question and starts generating a grounded answer.
// On success the caller owns the returned Stream and must Close it; cancelling
// ctx also releases it. Errors are *RetrievalError, *PromptTooLargeError or the
// provider's error.
func (e *Engine) Answer(ctx context.Context, question string) (*Stream, error) {
	logger := contextutil.LoggerFromContext(ctx)
	transition(ctx, logger, StateReceived, "question_length", len(question))

	sources, err := e.retriever.Search(ctx, question, e.limit)
	if err != nil {
		transition(ctx, logger, StateFailed, "error", err)
		return nil, err
	}
	transition(ctx, logger, StateRetrieved, "sources", len(sources))

	prompt := BuildPrompt(question, sources)
	transition(ctx, logger, StateContextBuilt, "prompt_length", len(prompt))

	tokens := e.tokenizer.Count(SystemPrompt) + e.tokenizer.Count(prompt)
	if tokens > e.promptTokenLimit {
		err := &PromptTooLargeError{Tokens: tokens, Limit: e.promptTokenLimit}
		transition(ctx, logger, StateFailed, "error", err)
		return nil, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	transition(ctx, logger, StateGenerating, "prompt_tokens", tokens)

	chat, err := e.chat.StreamChat(ctx, messages, llm.ChatParams{Temperature: 0})
	if err != nil {
		transition(ctx, logger, StateFailed, "error", err)
		return nil, err
	}

	return newStream(ctx, chat, sources, e.tokenizer, logger), nil
}

func transition(ctx context.Context, logger *slog.Logger, state State, args ...any) {
	args = append([]any{"state", state.String()}, args...)
	if state == StateFailed {
		logger.ErrorContext(ctx, "answer state", args...)
		return
	}
	logger.DebugContext(ctx, "answer state", args...)
}
