package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		body            string
		mockSetup       func(*mocks.MockChatService)
		wantStatus      int
		wantContentType string
		wantBody        string
	}{
		{
			name:   "streams increments then done",
			method: http.MethodPost,
			body:   `{"message":"Airflow or Dagster?"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), service.ChatRequest{Message: "Airflow or Dagster?"}).
					Return(streamOf([]string{"Dagster ", "[1]"}, nil), nil)
			},
			wantStatus:      http.StatusOK,
			wantContentType: "text/event-stream",
			wantBody:        "data: Dagster \n\ndata: [1]\n\ndata: [DONE]\n\n",
		},
		{
			name:   "multi-line increment",
			method: http.MethodPost,
			body:   `{"message":"q"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), gomock.Any()).
					Return(streamOf([]string{"a\nCitations:"}, nil), nil)
			},
			wantStatus:      http.StatusOK,
			wantContentType: "text/event-stream",
			wantBody:        "data: a\ndata: Citations:\n\ndata: [DONE]\n\n",
		},
		{
			name:   "mid-stream failure emits error event",
			method: http.MethodPost,
			body:   `{"message":"q"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), gomock.Any()).
					Return(streamOf([]string{"partial"}, errors.New("connection reset")), nil)
			},
			wantStatus:      http.StatusOK,
			wantContentType: "text/event-stream",
			wantBody:        "data: partial\n\nevent: error\ndata: Answer generation failed\n\n",
		},
		{
			name:       "invalid JSON",
			method:     http.MethodPost,
			body:       `{"message":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request body",
		},
		{
			name:       "empty message",
			method:     http.MethodPost,
			body:       `{"message":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Message cannot be empty",
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "prompt too large",
			method: http.MethodPost,
			body:   `{"message":"q"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), gomock.Any()).
					Return(nil, service.WrapError(&rag.PromptTooLargeError{Tokens: 20000, Limit: 16000}, "failed to answer question"))
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   "exceeds limit of 16000",
		},
		{
			name:   "embedding failure",
			method: http.MethodPost,
			body:   `{"message":"q"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), gomock.Any()).
					Return(nil, service.WrapError(&llm.EmbeddingError{StatusCode: 500, Body: "boom"}, "failed to answer question"))
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   "External service error",
		},
		{
			name:   "unexpected failure",
			method: http.MethodPost,
			body:   `{"message":"q"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamAnswer(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to process chat request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockChatService := mocks.NewMockChatService(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockChatService)
			}
			handler := NewChatHandler(mockChatService)

			req := httptest.NewRequest(tt.method, "/api/chat", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %d, want %d (body %q)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantContentType != "" {
				if got := w.Header().Get("Content-Type"); got != tt.wantContentType {
					t.Errorf("Content-Type = %q, want %q", got, tt.wantContentType)
				}
				if w.Header().Get("Content-Length") != "" {
					t.Error("streamed response should not set Content-Length")
				}
				if !w.Flushed {
					t.Error("streamed response was never flushed")
				}
				if w.Body.String() != tt.wantBody {
					t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
				}
				return
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
