package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  slog.Level
	LogFormat string
	APIPort   string
	DBPath    string

	QdrantURL        string
	QdrantCollection string

	OpenAIAPIKey        string
	LLMBaseURL          string
	LLMModelName        string
	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingDimensions int
	EmbeddingTokenLimit int
	RateLimitThreshold  int
	RateLimitDelay      time.Duration
	TokenizerEncoding   string
	ChunkSize           int
	ChunkOverlap        int
	RetrievalLimit      int
	PromptTokenLimit    int

	RedditClientID          string
	RedditClientSecret      string
	RedditUser              string
	RedditPassword          string
	UserAgent               string
	Subreddit               string
	RedditRequestsPerSecond float64
	IngestWorkers           int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is loaded,
// followed by .env.{ENVIRONMENT} when ENVIRONMENT is set.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		APIPort:            getEnv("API_PORT", "5000"),
		DBPath:             getEnv("DB_PATH", "./data/rag-reddit.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModelName:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		TokenizerEncoding:  getEnv("TOKENIZER_ENCODING", "cl100k_base"),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUser:         getEnv("REDDIT_USER", ""),
		RedditPassword:     getEnv("REDDIT_USER_PASSWORD", ""),
		UserAgent:          getEnv("USER_AGENT", "rag-reddit/1.0"),
		Subreddit:          getEnv("SUBREDDIT", "dataengineering"),
	}
	cfg.EmbeddingBaseURL = getEnv("EMBEDDING_BASE_URL", cfg.LLMBaseURL)

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	ints := []struct {
		key string
		def int
		dst *int
		min int
	}{
		{"EMBEDDING_DIMENSIONS", 1536, &cfg.EmbeddingDimensions, 1},
		{"EMBEDDING_TOKEN_LIMIT", 8191, &cfg.EmbeddingTokenLimit, 1},
		{"EMBEDDING_RATE_LIMIT_THRESHOLD", 50, &cfg.RateLimitThreshold, 0},
		{"CHUNK_SIZE", 1000, &cfg.ChunkSize, 1},
		{"CHUNK_OVERLAP", 100, &cfg.ChunkOverlap, 0},
		{"RETRIEVAL_LIMIT", 5, &cfg.RetrievalLimit, 1},
		{"PROMPT_TOKEN_LIMIT", 100000, &cfg.PromptTokenLimit, 1},
		{"INGEST_WORKERS", 10, &cfg.IngestWorkers, 1},
	}
	for _, entry := range ints {
		v, err := getEnvInt(entry.key, entry.def)
		if err != nil {
			return nil, err
		}
		if v < entry.min {
			return nil, fmt.Errorf("%s must be at least %d", entry.key, entry.min)
		}
		*entry.dst = v
	}

	// Chunk windows advance by CHUNK_SIZE - CHUNK_OVERLAP tokens.
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.ChunkSize > cfg.EmbeddingTokenLimit {
		return nil, fmt.Errorf("CHUNK_SIZE (%d) exceeds EMBEDDING_TOKEN_LIMIT (%d)", cfg.ChunkSize, cfg.EmbeddingTokenLimit)
	}

	delay, err := time.ParseDuration(getEnv("EMBEDDING_RATE_LIMIT_DELAY", "5s"))
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_RATE_LIMIT_DELAY must be a valid duration: %w", err)
	}
	if delay < 0 {
		return nil, fmt.Errorf("EMBEDDING_RATE_LIMIT_DELAY must not be negative")
	}
	cfg.RateLimitDelay = delay

	rps, err := strconv.ParseFloat(getEnv("REDDIT_REQUESTS_PER_SECOND", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("REDDIT_REQUESTS_PER_SECOND must be a valid number: %w", err)
	}
	if rps <= 0 {
		return nil, fmt.Errorf("REDDIT_REQUESTS_PER_SECOND must be greater than 0")
	}
	cfg.RedditRequestsPerSecond = rps

	// Validate required fields
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// ValidateReddit checks the credentials needed to talk to the Reddit API.
// Only ingestion needs them, so Load does not enforce them.
func (c *Config) ValidateReddit() error {
	missing := make([]string, 0, 4)
	if c.RedditClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.RedditClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.RedditUser == "" {
		missing = append(missing, "REDDIT_USER")
	}
	if c.RedditPassword == "" {
		missing = append(missing, "REDDIT_USER_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing reddit configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// loadDotEnv loads .env from the working directory or the closest parent
// (up to 5 levels), then the optional .env.{ENVIRONMENT} overlay next to it.
// Errors are ignored: the files are optional.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		_ = godotenv.Load(filepath.Join(dir, ".env."+env))
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, falling back to defaultValue when unset.
func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}
