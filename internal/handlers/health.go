package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LorenzoPeve/rag-reddit/internal/contextutil"
	"github.com/LorenzoPeve/rag-reddit/internal/vectorstore"
)

const healthCheckTimeout = 5 * time.Second

// Pinger checks database connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// dependencyCheck probes one backing service. A failed probe adds issue to the response.
type dependencyCheck struct {
	name  string
	issue string
	probe func(ctx context.Context) error
}

// HealthHandler reports whether the post database and the vector index are reachable.
type HealthHandler struct {
	checks []dependencyCheck
}

// NewHealthHandler creates a HealthHandler that pings db and looks up collection in vectorStore.
func NewHealthHandler(db Pinger, vectorStore vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		checks: []dependencyCheck{
			{
				name:  "database",
				issue: "database_unavailable",
				probe: db.PingContext,
			},
			{
				name:  "vector_store",
				issue: "vector_store_unavailable",
				probe: func(ctx context.Context) error {
					exists, err := vectorStore.CollectionExists(ctx, collection)
					if err != nil {
						return err
					}
					if !exists {
						return fmt.Errorf("collection %q does not exist", collection)
					}
					return nil
				},
			},
		},
	}
}

// ServeHTTP runs every check and answers 200 when all pass, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for _, check := range h.checks {
		if err := check.probe(checkCtx); err != nil {
			logger.WarnContext(ctx, "health check failed", "check", check.name, "error", err)
			resp.Checks[check.name] = "error"
			resp.Issues = append(resp.Issues, check.issue)
			continue
		}
		resp.Checks[check.name] = "ok"
	}

	code := http.StatusOK
	if len(resp.Issues) > 0 {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
