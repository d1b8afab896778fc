package indexer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the content of a post. Any edit to the title, the
// description or the comments changes it. The result is 16 hex characters.
func Fingerprint(title, description, comments string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(title+description+comments))
}
