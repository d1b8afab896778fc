package reddit

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a post does not exist or is not visible.
var ErrNotFound = errors.New("post not found")

// APIError is a non-200 response from the Reddit API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit API returned status %d: %s", e.StatusCode, e.Body)
}
