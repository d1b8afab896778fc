package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
)

// ChatHandler streams grounded answers over Server-Sent Events.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ServeHTTP handles HTTP requests for chat.
//
// Errors raised before the first increment is written are returned as JSON
// with a matching status. Once streaming has started, a failure is reported
// as an "error" event and the stream ends without [DONE].
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	stream, err := h.chatService.StreamAnswer(ctx, service.ChatRequest{Message: req.Message})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}
	defer func() {
		_ = stream.Close()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for stream.Next() {
		if err := writeEvent(w, "", stream.Text()); err != nil {
			logger.WarnContext(ctx, "client went away during stream", "error", err)
			return
		}
		flusher.Flush()
	}

	if err := stream.Err(); err != nil {
		logger.ErrorContext(ctx, "error streaming answer", "error", err, "output_tokens", stream.OutputTokens())
		_ = writeEvent(w, "error", "Answer generation failed")
		flusher.Flush()
		return
	}

	_ = writeEvent(w, "", "[DONE]")
	flusher.Flush()
}

// writeEvent writes one SSE event. Multi-line data is sent as one data
// line per line so clients can rejoin it with newlines.
func writeEvent(w http.ResponseWriter, event, data string) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
