// Package ingest orchestrates the URL-to-vector-store pipeline.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/joaopdss/news-article-agent/internal/article"
	"github.com/joaopdss/news-article-agent/internal/dedup"
	"github.com/joaopdss/news-article-agent/internal/urlcheck"
)

// Extractor fetches and structures a news page. A nil article means the
// page could not be processed; the cause is already logged.
type Extractor interface {
	Extract(ctx context.Context, url string) *article.Article
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Upserter writes an article record keyed by URL.
type Upserter interface {
	Upsert(ctx context.Context, url string, vector []float32, art article.Article) error
}

// Coordinator runs the ingestion pipeline for a single URL:
// validate -> dedup -> extract -> embed -> upsert.
//
// Errors from the embed and upsert stages are wrapped with a stage label
// and returned to the caller (the intake transport), which owns
// message-level ack/retry policy. Validation, dedup hits and extraction
// failures are terminal no-ops.
type Coordinator struct {
	extractor Extractor
	embedder  Embedder
	store     Upserter
	cache     *dedup.Cache
	logger    *zap.Logger
}

// NewCoordinator creates an ingestion coordinator. The dedup cache is
// injected so its capacity and window are owned by the caller.
func NewCoordinator(extractor Extractor, embedder Embedder, store Upserter, cache *dedup.Cache, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		cache:     cache,
		logger:    logger.Named("ingest"),
	}
}

// Ingest processes one URL end to end.
func (c *Coordinator) Ingest(ctx context.Context, url string) error {
	if !urlcheck.IsURL(url) {
		c.logger.Warn("rejecting invalid url", zap.String("url", url))
		urlsRejected.Inc()
		return nil
	}

	if c.cache.Seen(url) {
		c.logger.Debug("url seen recently, skipping", zap.String("url", url))
		dedupSkips.Inc()
		return nil
	}

	art := c.extractor.Extract(ctx, url)
	if art == nil {
		// Cause already logged by the extractor.
		extractionFailures.Inc()
		return nil
	}

	vector, err := c.embedder.Embed(ctx, art.Title+". "+art.Content)
	if err != nil {
		ingestFailures.WithLabelValues("embed").Inc()
		return fmt.Errorf("embedding article %s: %w", url, err)
	}

	if err := c.store.Upsert(ctx, url, vector, *art); err != nil {
		ingestFailures.WithLabelValues("upsert").Inc()
		return fmt.Errorf("storing article %s: %w", url, err)
	}

	c.logger.Info("article ingested",
		zap.String("url", url),
		zap.String("title", art.Title))
	articlesIngested.Inc()
	return nil
}
