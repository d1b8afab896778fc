package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func embeddingBody(size, tokens int) string {
	vec := make([]string, size)
	for i := range vec {
		vec[i] = "0.5"
	}
	return fmt.Sprintf(`{"data":[{"embedding":[%s]}],"usage":{"prompt_tokens":%d,"total_tokens":%d}}`,
		strings.Join(vec, ","), tokens, tokens)
}

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8080/", "test-key", "test-model", 768, Throttle{Threshold: 50, Delay: time.Second})
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("NewEmbeddingsClient() BaseURL = %v, want http://localhost:8080", client.BaseURL)
	}
	if client.ExpectedSize != 768 {
		t.Errorf("NewEmbeddingsClient() ExpectedSize = %v, want 768", client.ExpectedSize)
	}
	if client.Throttle.Threshold != 50 {
		t.Errorf("NewEmbeddingsClient() Throttle.Threshold = %v, want 50", client.Throttle.Threshold)
	}
}

func TestEmbeddingsClient_Embed(t *testing.T) {
	tests := []struct {
		name         string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantStatus   int
		wantTokens   int
	}{
		{
			name:         "successful embedding",
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				var req embeddingsRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Input != "Hello" || req.Model != "test-model" {
					t.Errorf("request = %+v", req)
				}
				_, _ = w.Write([]byte(embeddingBody(4, 7)))
			},
			wantTokens: 7,
		},
		{
			name:         "server error",
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("bad key"))
			},
			wantErr:    true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "dimension mismatch",
			expectedSize: 1536,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(embeddingBody(4, 1)))
			},
			wantErr: true,
		},
		{
			name:         "no data",
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[]}`))
			},
			wantErr: true,
		},
		{
			name:         "invalid JSON",
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", tt.expectedSize, Throttle{})
			emb, err := client.Embed(context.Background(), "Hello")

			if tt.wantErr {
				var embErr *EmbeddingError
				if !errors.As(err, &embErr) {
					t.Fatalf("Embed() error = %v, want *EmbeddingError", err)
				}
				if embErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", embErr.StatusCode, tt.wantStatus)
				}
				return
			}

			if err != nil {
				t.Fatalf("Embed() unexpected error: %v", err)
			}
			if len(emb.Vector) != tt.expectedSize {
				t.Errorf("len(Vector) = %d, want %d", len(emb.Vector), tt.expectedSize)
			}
			if emb.Vector[0] != float32(0.5) {
				t.Errorf("Vector[0] = %v, want 0.5", emb.Vector[0])
			}
			if emb.Tokens != tt.wantTokens {
				t.Errorf("Tokens = %d, want %d", emb.Tokens, tt.wantTokens)
			}
		})
	}
}

func TestEmbeddingsClient_Throttle(t *testing.T) {
	const delay = 50 * time.Millisecond

	tests := []struct {
		name      string
		remaining string
		wantSleep bool
	}{
		{name: "quota above threshold", remaining: "2999", wantSleep: true},
		{name: "quota at threshold", remaining: "50", wantSleep: false},
		{name: "quota below threshold", remaining: "3", wantSleep: false},
		{name: "header missing", remaining: "", wantSleep: false},
		{name: "header unparsable", remaining: "lots", wantSleep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.remaining != "" {
					w.Header().Set(RateLimitHeader, tt.remaining)
				}
				_, _ = w.Write([]byte(embeddingBody(2, 1)))
			}))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "k", "m", 2, Throttle{Threshold: 50, Delay: delay})

			start := time.Now()
			if _, err := client.Embed(context.Background(), "x"); err != nil {
				t.Fatalf("Embed() error = %v", err)
			}
			elapsed := time.Since(start)

			if tt.wantSleep && elapsed < delay {
				t.Errorf("Embed() took %v, want at least %v", elapsed, delay)
			}
			if !tt.wantSleep && elapsed >= delay {
				t.Errorf("Embed() took %v, want no throttle pause", elapsed)
			}
		})
	}
}

func TestEmbeddingsClient_ThrottleHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RateLimitHeader, "1000")
		_, _ = w.Write([]byte(embeddingBody(2, 1)))
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 2, Throttle{Threshold: 50, Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Embed(ctx, "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Embed() error = %v, want context.DeadlineExceeded", err)
	}
}
