package service

import (
	"errors"
	"fmt"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrIndexRunning is returned when an index refresh is already in progress.
	ErrIndexRunning = errors.New("index refresh already running")
)

// ValidationError represents a validation error with a field name.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
// Failures of the embedding, retrieval or generation providers also match
// ErrExternalService; the original error stays reachable with errors.As.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isExternal(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isExternal(err error) bool {
	var (
		embeddingErr *llm.EmbeddingError
		providerErr  *llm.ProviderError
		retrievalErr *rag.RetrievalError
	)
	return errors.As(err, &embeddingErr) || errors.As(err, &providerErr) || errors.As(err, &retrievalErr)
}
