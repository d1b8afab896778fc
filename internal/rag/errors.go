package rag

import (
	"errors"
	"fmt"
)

// ErrStreamClosed is reported by a Stream closed before the answer was complete.
var ErrStreamClosed = errors.New("answer stream closed")

// RetrievalError reports that one of the search signals failed.
type RetrievalError struct {
	Signal string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed in %s search: %v", e.Signal, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// PromptTooLargeError reports a prompt over the token ceiling.
type PromptTooLargeError struct {
	Tokens int
	Limit  int
}

func (e *PromptTooLargeError) Error() string {
	return fmt.Sprintf("prompt is too large: %d tokens exceeds limit of %d", e.Tokens, e.Limit)
}
