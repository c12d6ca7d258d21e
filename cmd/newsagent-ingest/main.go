// Package main implements the newsagent-ingest CLI for batch ingestion
// of article URLs from a CSV file.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/joaopdss/news-article-agent/internal/config"
	"github.com/joaopdss/news-article-agent/internal/dedup"
	"github.com/joaopdss/news-article-agent/internal/embeddings"
	"github.com/joaopdss/news-article-agent/internal/extract"
	"github.com/joaopdss/news-article-agent/internal/ingest"
	"github.com/joaopdss/news-article-agent/internal/intake"
	"github.com/joaopdss/news-article-agent/internal/logging"
	"github.com/joaopdss/news-article-agent/internal/vectorstore"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsagent-ingest <file.csv>",
	Short: "Batch-ingest article URLs from a CSV file",
	Long: `newsagent-ingest runs the full extract-embed-store pipeline for every
URL in a CSV file. The URL column is located by a "url" header when one
is present, otherwise the first column is used.

Row failures are logged and skipped; the run continues to the end.

Examples:
  # Ingest a dataset
  newsagent-ingest news.csv

  # With an explicit config file
  newsagent-ingest --config config.yaml news.csv`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runIngest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

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

	embedder, err := embeddings.NewService(embeddings.Config{
		BaseURL:  cfg.Embeddings.BaseURL,
		Model:    cfg.Embeddings.Model,
		APIKey:   cfg.Embeddings.APIKey,
		MaxChars: cfg.Embeddings.MaxChars,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing embedding service: %w", err)
	}

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

	coordinator := ingest.NewCoordinator(
		extractor,
		embedder,
		store,
		dedup.New(cfg.Ingest.DedupCapacity, cfg.Ingest.DedupWindow),
		logger,
	)

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer file.Close()

	processed, failed, err := intake.FeedCSV(ctx, file, coordinator, logger)
	if err != nil {
		return fmt.Errorf("feeding %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d URLs (%d failed)\n", processed, failed)
	return nil
}

// newChatModel builds the OpenAI-compatible chat model used for
// structuring fetched pages.
func newChatModel(cfg config.LLMConfig) (*openai.LLM, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
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
