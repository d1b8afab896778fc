package indexer

import "fmt"

// IngestionError reports a post that could not be ingested. Any rows and
// embeddings written for the post before the failure have been removed.
type IngestionError struct {
	PostID string
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("failed to ingest post %s: %v", e.PostID, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
