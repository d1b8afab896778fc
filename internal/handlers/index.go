package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
)

// IndexHandler handles HTTP requests for refreshing the index.
type IndexHandler struct {
	indexService service.IndexService
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(indexService service.IndexService) *IndexHandler {
	return &IndexHandler{indexService: indexService}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering a refresh.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Detach from the request so the refresh outlives it, keeping the request logger.
	indexCtx := contextutil.WithLogger(context.WithoutCancel(ctx), logger)
	err := h.indexService.Start(indexCtx, func(stats indexer.RunStats, err error) {
		if err != nil {
			logger.ErrorContext(indexCtx, "index refresh completed with errors", "error", err, "stats", stats)
			return
		}
		logger.InfoContext(indexCtx, "index refresh completed successfully", "stats", stats)
	})
	if errors.Is(err, service.ErrIndexRunning) {
		writeError(w, http.StatusConflict, "Index refresh already running")
		return
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to start index refresh")
		return
	}
	logger.InfoContext(ctx, "index refresh triggered via API")

	writeJSON(w, http.StatusAccepted, IndexResponse{
		Message: "Index refresh started. Check server logs for progress.",
		Status:  "accepted",
	})
}

// IndexStatsHandler reports index coverage.
type IndexStatsHandler struct {
	indexService service.IndexService
}

// NewIndexStatsHandler creates a new IndexStatsHandler.
func NewIndexStatsHandler(indexService service.IndexService) *IndexStatsHandler {
	return &IndexStatsHandler{indexService: indexService}
}

// ServeHTTP handles GET /api/index/stats.
func (h *IndexStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.indexService.Stats(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to compute index stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
