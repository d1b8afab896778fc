package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LorenzoPeve/rag-reddit/internal/config"
	"github.com/LorenzoPeve/rag-reddit/internal/http"
	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
	"github.com/LorenzoPeve/rag-reddit/internal/reddit"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/storage"
	"github.com/LorenzoPeve/rag-reddit/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimensions, storage.PayloadPostID); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	info, err := vectorStore.GetCollectionInfo(ctx, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to read Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", info.VectorSize, "points", info.PointsCount, "status", info.Status)

	tokenizer, err := llm.NewTokenizer(cfg.TokenizerEncoding)
	if err != nil {
		log.Fatalf("Failed to load tokenizer: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimensions, llm.Throttle{
		Threshold: cfg.RateLimitThreshold,
		Delay:     cfg.RateLimitDelay,
	})
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.OpenAIAPIKey, cfg.LLMModelName)

	store := storage.NewStore(
		storage.NewPostRepo(db),
		storage.NewDocumentRepo(db),
		vectorStore,
		embedder,
		cfg.QdrantCollection,
	)

	ragEngine := rag.NewEngine(rag.NewRetriever(store), llmClient, tokenizer, rag.Options{
		Limit:            cfg.RetrievalLimit,
		PromptTokenLimit: cfg.PromptTokenLimit,
	})
	slog.Info("RAG engine initialized", "model", cfg.LLMModelName, "limit", cfg.RetrievalLimit)

	// Ingestion is only reachable through /api/index; it needs Reddit credentials.
	if err := cfg.ValidateReddit(); err != nil {
		slog.Warn("Index refresh will fail until Reddit is configured", "error", err)
	}
	chunker, err := indexer.NewChunker(tokenizer, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}
	redditClient := reddit.NewClient(reddit.Config{
		ClientID:          cfg.RedditClientID,
		ClientSecret:      cfg.RedditClientSecret,
		Username:          cfg.RedditUser,
		Password:          cfg.RedditPassword,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RedditRequestsPerSecond,
	})
	pipeline := indexer.NewPipeline(redditClient, store, embedder, chunker, indexer.Options{
		Workers:    cfg.IngestWorkers,
		TokenLimit: cfg.EmbeddingTokenLimit,
	})

	deps := &http.Deps{
		ChatService:   service.NewChatService(ragEngine),
		LookupService: service.NewLookupService(store),
		IndexService: service.NewIndexService(pipeline, service.IndexConfig{
			Subreddit:      cfg.Subreddit,
			EmbeddingModel: cfg.EmbeddingModelName,
		}),
		DB:             db,
		VectorStore:    vectorStore,
		CollectionName: cfg.QdrantCollection,
	}

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("API server shutdown failed", "error", err)
	}
}
