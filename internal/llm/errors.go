package llm

import "fmt"

// EmbeddingError reports a failed embedding request.
// StatusCode is zero when the request never produced a response.
type EmbeddingError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *EmbeddingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("embedding request failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// ProviderError reports a non-success response from the generation provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generation provider returned status %d: %s", e.StatusCode, e.Body)
}
