package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LorenzoPeve/rag-reddit/internal/handlers"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	LookupService  service.LookupService
	IndexService   service.IndexService
	DB             handlers.Pinger
	VectorStore    vectorstore.VectorStore
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	findIDsHandler := handlers.NewFindIDsHandler(deps.LookupService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.CollectionName)
	indexHandler := handlers.NewIndexHandler(deps.IndexService)
	indexStatsHandler := handlers.NewIndexStatsHandler(deps.IndexService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/find_ids", findIDsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodGet, "/index/stats", indexStatsHandler)
	})

	return r
}
