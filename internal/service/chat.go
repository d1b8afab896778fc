package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_answerer.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service Answerer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks github.com/LorenzoPeve/rag-reddit/internal/service ChatService

import (
	"context"
	"strings"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
)

// Answerer answers a question from the indexed posts.
// This interface is defined from the service layer's perspective (consumer-first).
type Answerer interface {
	Answer(ctx context.Context, question string) (*rag.Stream, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string
}

// ChatService provides question answering.
type ChatService interface {
	// StreamAnswer validates the question and starts a streamed answer.
	// The caller must Close the returned stream.
	StreamAnswer(ctx context.Context, req ChatRequest) (*rag.Stream, error)
}

// chatService implements ChatService.
type chatService struct {
	answerer Answerer
}

// NewChatService creates a new ChatService.
func NewChatService(answerer Answerer) ChatService {
	return &chatService{answerer: answerer}
}

// StreamAnswer processes a chat request.
func (s *chatService) StreamAnswer(ctx context.Context, req ChatRequest) (*rag.Stream, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	question := strings.TrimSpace(req.Message)
	if question == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return nil, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	stream, err := s.answerer.Answer(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return nil, WrapError(err, "failed to answer question")
	}

	logger.InfoContext(ctx, "answer started", "message_length", len(question), "sources", len(stream.Sources()))
	return stream, nil
}
