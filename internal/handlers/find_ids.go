package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
)

// FindIDsHandler resolves cited post ids to their permalinks.
type FindIDsHandler struct {
	lookupService service.LookupService
}

// NewFindIDsHandler creates a new FindIDsHandler.
func NewFindIDsHandler(lookupService service.LookupService) *FindIDsHandler {
	return &FindIDsHandler{lookupService: lookupService}
}

// FindIDsResponse maps post ids to permalinks. Unknown ids are omitted.
type FindIDsResponse struct {
	URLs map[string]string `json:"urls"`
}

// ServeHTTP handles POST /api/find_ids with a body of {"post_ids": [...]}.
func (h *FindIDsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.WarnContext(ctx, "invalid find_ids body", "error", err)
		writeError(w, http.StatusBadRequest, "Missing post_ids in request body")
		return
	}
	raw, ok := body["post_ids"]
	if !ok || string(raw) == "null" {
		writeError(w, http.StatusBadRequest, "Missing post_ids in request body")
		return
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		writeError(w, http.StatusBadRequest, "post_ids must be a list")
		return
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := item.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}

	urls, err := h.lookupService.FindURLs(ctx, ids)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to look up post ids")
		return
	}

	writeJSON(w, http.StatusOK, FindIDsResponse{URLs: urls})
}
