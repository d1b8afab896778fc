package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

const maxEventSize = 1024 * 1024

// Client is a client for an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// Chat sends a chat completion request and returns the full reply.
func (c *Client) Chat(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	resp, err := c.post(ctx, c.buildRequest(messages, params, false))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StreamChat sends a streaming chat completion request.
// The caller owns the returned stream and must Close it.
func (c *Client) StreamChat(ctx context.Context, messages []Message, params ChatParams) (*ChatStream, error) {
	resp, err := c.post(ctx, c.buildRequest(messages, params, true))
	if err != nil {
		return nil, err
	}
	return NewChatStream(resp.Body), nil
}

func (c *Client) buildRequest(messages []Message, params ChatParams, stream bool) chatRequest {
	model := params.Model
	if model == "" {
		model = c.Model
	}

	req := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Stream:      stream,
	}
	if stream {
		req.StreamOptions = &streamOptions{IncludeUsage: true}
	}
	return req
}

// post sends the payload and returns the response when the status is 200.
// Any other status is drained into a *ProviderError.
func (c *Client) post(ctx context.Context, payload chatRequest) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return resp, nil
}

// ChatStream iterates over the content deltas of a streamed completion.
// It is forward-only and not safe for concurrent use, except Close.
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	delta        string
	finishReason string
	usage        Usage
	done         bool
	err          error

	closeOnce sync.Once
	closeErr  error
}

// NewChatStream reads server-sent events from body.
func NewChatStream(body io.ReadCloser) *ChatStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &ChatStream{body: body, scanner: scanner}
}

// Next advances to the next non-empty content delta.
// It returns false at the end of the stream or on error; check Err.
func (s *ChatStream) Next() bool {
	if s.done {
		return false
	}

	const dataPrefix = "data: "
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)
		if data == "[DONE]" {
			s.done = true
			return false
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed JSON chunks
			continue
		}

		if chunk.Usage != nil {
			s.usage = *chunk.Usage
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if reason := chunk.Choices[0].FinishReason; reason != "" {
			s.finishReason = reason
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			s.delta = content
			return true
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("failed to read stream: %w", err)
	}
	return false
}

// Delta returns the content produced by the last successful Next.
func (s *ChatStream) Delta() string {
	return s.delta
}

// Err returns the first read error, if any.
func (s *ChatStream) Err() error {
	return s.err
}

// FinishReasonLength is reported when generation stopped at the output token limit.
const FinishReasonLength = "length"

// FinishReason returns the finish reason reported by the provider, if any.
func (s *ChatStream) FinishReason() string {
	return s.finishReason
}

// Usage returns the token usage reported at the end of the stream.
// It is zero when the provider does not report usage.
func (s *ChatStream) Usage() Usage {
	return s.usage
}

// Close releases the underlying connection. It is safe to call more than once
// and from another goroutine.
func (s *ChatStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
