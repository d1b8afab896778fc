package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const botSignature = "I am a bot, and this action was performed automatically"

// Bodies that carry no content. Their replies are still collected.
var discardedBodies = map[string]bool{
	"following":  true,
	"following!": true,
	"+1":         true,
	"[deleted]":  true,
	"deleted":    true,
}

// Comments returns the text of every comment of a post, depth first in
// "best" order, joined with newlines. Bot comments are skipped together with
// their replies. Collapsed "more" stubs are not expanded.
func (c *Client) Comments(ctx context.Context, id string) (string, error) {
	params := url.Values{}
	params.Set("sort", "best")

	// The response is the post listing followed by the comment listing.
	var resp []listing
	if err := c.get(ctx, "/comments/"+url.PathEscape(id), params, &resp); err != nil {
		return "", fmt.Errorf("failed to get comments of post %s: %w", id, err)
	}
	if len(resp) < 2 {
		return "", fmt.Errorf("failed to get comments of post %s: expected 2 listings, got %d", id, len(resp))
	}

	bodies, err := collectComments(resp[1].Data.Children, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read comments of post %s: %w", id, err)
	}
	return strings.Join(bodies, "\n"), nil
}

func collectComments(children []thing, out []string) ([]string, error) {
	for _, child := range children {
		if child.Kind != "t1" {
			continue
		}

		var cm comment
		if err := json.Unmarshal(child.Data, &cm); err != nil {
			return nil, err
		}
		if strings.Contains(cm.Body, botSignature) {
			continue
		}
		if !discardedBodies[strings.ToLower(cm.Body)] {
			out = append(out, cm.Body)
		}

		var err error
		out, err = collectComments(cm.Replies.Data.Children, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
