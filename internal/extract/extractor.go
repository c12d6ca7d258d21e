// Package extract fetches news pages and structures them into articles.
package extract

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/joaopdss/news-article-agent/internal/article"
	"github.com/joaopdss/news-article-agent/internal/urlcheck"
)

// DefaultMaxContentChars caps raw fetched content before it is handed to
// the structuring capability, to respect upstream request-size limits.
// Truncation is silent and keeps the prefix.
const DefaultMaxContentChars = 120000

// Structurer turns raw page content into a structured article.
type Structurer interface {
	// Structure extracts {title, content, date} from raw content.
	// A response that cannot be parsed at all is a hard failure.
	Structure(ctx context.Context, raw, url string) (article.Article, error)
}

// Extractor fetches a URL and structures its content.
//
// Extraction failures are recovered locally: fetch errors, empty pages
// and unusable structuring output are logged and surface to callers as a
// nil article, never as an error.
type Extractor struct {
	client     *http.Client
	structurer Structurer
	maxChars   int
	logger     *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient replaces the HTTP client used for fetching.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) { e.client = client }
}

// WithMaxContentChars overrides the raw content cap.
func WithMaxContentChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxChars = n
		}
	}
}

// NewExtractor creates an extractor using the given structuring
// capability.
func NewExtractor(structurer Structurer, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		client:     &http.Client{Timeout: 30 * time.Second},
		structurer: structurer,
		maxChars:   DefaultMaxContentChars,
		logger:     logger.Named("extract"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the URL and structures its content into an article.
// It returns nil when the page cannot be processed; the cause is logged
// here so callers can simply abort.
func (e *Extractor) Extract(ctx context.Context, url string) *article.Article {
	if !urlcheck.IsURL(url) {
		e.logger.Warn("refusing to extract invalid url", zap.String("url", url))
		return nil
	}

	raw, ok := e.fetch(ctx, url)
	if !ok {
		return nil
	}

	if len(raw) > e.maxChars {
		raw = raw[:e.maxChars]
	}

	art, err := e.structurer.Structure(ctx, raw, url)
	if err != nil {
		e.logger.Warn("structuring failed",
			zap.String("url", url),
			zap.Error(err))
		return nil
	}

	art.URL = url
	return &art
}

// fetch retrieves the raw page body. Non-2xx responses, transport errors
// and empty bodies all fail soft.
func (e *Extractor) fetch(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.logger.Warn("building fetch request failed",
			zap.String("url", url),
			zap.Error(err))
		return "", false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Warn("fetch returned non-2xx status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Warn("reading fetch body failed",
			zap.String("url", url),
			zap.Error(err))
		return "", false
	}

	if len(body) == 0 {
		e.logger.Warn("fetched content is empty", zap.String("url", url))
		return "", false
	}

	return string(body), true
}
