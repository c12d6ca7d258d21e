// Newsagentd ingests news articles into a vector index and answers
// questions about them over HTTP.
//
// The daemon consumes article URLs from a NATS subject (when enabled),
// runs them through the extract-embed-store pipeline, and serves the
// query endpoint at POST /agent.
//
// Configuration is loaded from an optional YAML file plus environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	newsagentd
//
//	# Configure via environment
//	SERVER_PORT=9090 QDRANT_HOST=qdrant newsagentd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/joaopdss/news-article-agent/internal/agent"
	"github.com/joaopdss/news-article-agent/internal/config"
	"github.com/joaopdss/news-article-agent/internal/dedup"
	"github.com/joaopdss/news-article-agent/internal/embeddings"
	"github.com/joaopdss/news-article-agent/internal/extract"
	"github.com/joaopdss/news-article-agent/internal/httpapi"
	"github.com/joaopdss/news-article-agent/internal/ingest"
	"github.com/joaopdss/news-article-agent/internal/intake"
	"github.com/joaopdss/news-article-agent/internal/logging"
	"github.com/joaopdss/news-article-agent/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("newsagentd\nVersion:    %s\nCommit:     %s\nBuild Date: %s\n",
			version, gitCommit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// run starts the daemon and blocks until context cancellation.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Connect infrastructure (Qdrant, NATS when enabled)
//  4. Create embedding, extraction and generation services
//  5. Wire ingestion pipeline and query agent
//  6. Start intake consumer and HTTP server
//  7. Graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting newsagentd",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("streaming_intake", cfg.NATS.Enabled),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	// Vector store
	store, err := vectorstore.NewQdrantStore(ctx, vectorstore.QdrantConfig{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
		UseTLS:     cfg.Qdrant.UseTLS,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing vector store: %w", err)
	}
	defer store.Close()

	logger.Info("Vector store initialized",
		zap.String("host", cfg.Qdrant.Host),
		zap.String("collection", cfg.Qdrant.Collection),
		zap.Uint64("vector_size", cfg.Qdrant.VectorSize))

	// Embedding service
	embedder, err := embeddings.NewService(embeddings.Config{
		BaseURL:  cfg.Embeddings.BaseURL,
		Model:    cfg.Embeddings.Model,
		APIKey:   cfg.Embeddings.APIKey,
		MaxChars: cfg.Embeddings.MaxChars,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing embedding service: %w", err)
	}

	// Shared chat model for structuring and answer generation
	model, err := newChatModel(cfg.LLM)
	if err != nil {
		return fmt.Errorf("initializing chat model: %w", err)
	}

	extractor := extract.NewExtractor(
		extract.NewLLMStructurer(model, logger),
		logger,
		extract.WithHTTPClient(&http.Client{Timeout: cfg.Extract.FetchTimeout}),
		extract.WithMaxContentChars(cfg.Extract.MaxContentChars),
	)

	// Ingestion pipeline
	coordinator := ingest.NewCoordinator(
		extractor,
		embedder,
		store,
		dedup.New(cfg.Ingest.DedupCapacity, cfg.Ingest.DedupWindow),
		logger,
	)

	// Query agent
	answerer := agent.New(
		extractor,
		embedder,
		store,
		agent.NewLLMGenerator(model),
		cfg.Query.TopK,
		logger,
	)

	// Streaming intake
	if cfg.NATS.Enabled {
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(5),
			nats.ReconnectWait(1*time.Second),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS at %s: %w", cfg.NATS.URL, err)
		}
		defer nc.Close()

		logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))

		consumer := intake.NewConsumer(nc, cfg.NATS.Subject, coordinator, logger)
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("starting intake consumer: %w", err)
		}
		defer func() {
			if err := consumer.Stop(); err != nil {
				logger.Warn("stopping intake consumer", zap.Error(err))
			}
		}()
	}

	// HTTP server
	srv, err := httpapi.NewServer(answerer, logger, &httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// newChatModel builds the OpenAI-compatible chat model shared by the
// structurer and the answer generator.
func newChatModel(cfg config.LLMConfig) (*openai.LLM, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token; local endpoints ignore it.
		apiKey = "placeholder"
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...)
}
