package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitHeader carries the provider's remaining request quota.
const RateLimitHeader = "x-ratelimit-remaining-requests"

// Throttle is a fixed pause applied after an embedding call while the
// provider reports more remaining requests than Threshold.
// A zero Delay disables it.
type Throttle struct {
	Threshold int
	Delay     time.Duration
}

// EmbeddingsClient is a client for an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation
	Throttle     Throttle
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize is the expected vector size (from EMBEDDING_DIMENSIONS config).
// Every embedding returned by Embed is validated against this size.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int, throttle Throttle) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		Throttle:     throttle,
		client:       http.DefaultClient,
	}
}

// Embed generates the embedding for a single text.
// Every failure is returned as an *EmbeddingError; nothing is retried.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) (Embedding, error) {
	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)

	body, err := json.Marshal(embeddingsRequest{Model: c.Model, Input: text})
	if err != nil {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Embedding{}, &EmbeddingError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var embeddingsResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingsResp); err != nil {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(embeddingsResp.Data) != 1 {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("expected 1 embedding, got %d", len(embeddingsResp.Data))}
	}

	data := embeddingsResp.Data[0].Embedding
	if len(data) != c.ExpectedSize {
		return Embedding{}, &EmbeddingError{Err: fmt.Errorf("embedding has size %d, expected %d", len(data), c.ExpectedSize)}
	}

	// Convert []float64 to []float32
	vec := make([]float32, len(data))
	for i, v := range data {
		vec[i] = float32(v)
	}

	if err := c.throttle(ctx, resp.Header.Get(RateLimitHeader)); err != nil {
		return Embedding{}, err
	}

	return Embedding{Vector: vec, Tokens: embeddingsResp.Usage.PromptTokens}, nil
}

// throttle sleeps for the configured delay when the remaining quota exceeds
// the threshold. A missing or unparsable header never sleeps.
func (c *EmbeddingsClient) throttle(ctx context.Context, remaining string) error {
	if c.Throttle.Delay <= 0 || remaining == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(remaining))
	if err != nil || n <= c.Throttle.Threshold {
		return nil
	}

	timer := time.NewTimer(c.Throttle.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("embedding throttle interrupted: %w", ctx.Err())
	}
}
