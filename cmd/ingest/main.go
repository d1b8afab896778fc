package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LorenzoPeve/rag-reddit/internal/cli"
	"github.com/LorenzoPeve/rag-reddit/internal/config"
	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
	"github.com/LorenzoPeve/rag-reddit/internal/llm"
	"github.com/LorenzoPeve/rag-reddit/internal/rag"
	"github.com/LorenzoPeve/rag-reddit/internal/reddit"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/storage"
	"github.com/LorenzoPeve/rag-reddit/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Logs go to stderr so answers on stdout stay clean.
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	if err := cfg.ValidateReddit(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimensions, storage.PayloadPostID); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}

	tokenizer, err := llm.NewTokenizer(cfg.TokenizerEncoding)
	if err != nil {
		log.Fatalf("Failed to load tokenizer: %v", err)
	}
	chunker, err := indexer.NewChunker(tokenizer, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimensions, llm.Throttle{
		Threshold: cfg.RateLimitThreshold,
		Delay:     cfg.RateLimitDelay,
	})
	store := storage.NewStore(
		storage.NewPostRepo(db),
		storage.NewDocumentRepo(db),
		vectorStore,
		embedder,
		cfg.QdrantCollection,
	)

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

	ragEngine := rag.NewEngine(rag.NewRetriever(store), llm.NewClient(cfg.LLMBaseURL, cfg.OpenAIAPIKey, cfg.LLMModelName), tokenizer, rag.Options{
		Limit:            cfg.RetrievalLimit,
		PromptTokenLimit: cfg.PromptTokenLimit,
	})

	app := &cli.App{
		Subreddit: cfg.Subreddit,
		Ingester:  pipeline,
		Index: service.NewIndexService(pipeline, service.IndexConfig{
			Subreddit:      cfg.Subreddit,
			EmbeddingModel: cfg.EmbeddingModelName,
		}),
		Detector: indexer.NewDetector(store, redditClient),
		Chat:     service.NewChatService(ragEngine),
		Lookup:   service.NewLookupService(store),
	}

	if err := cli.Execute(ctx, app); err != nil {
		stop()
		_ = db.Close()
		os.Exit(1)
	}
}
