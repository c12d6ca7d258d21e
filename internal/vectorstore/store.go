// Package vectorstore persists article embeddings in a vector index.
package vectorstore

import (
	"context"
	"errors"

	"github.com/joaopdss/news-article-agent/internal/article"
)

// Sentinel errors for vector store operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid vector store configuration")

	// ErrConnectionFailed indicates gRPC connection issues.
	ErrConnectionFailed = errors.New("failed to connect to Qdrant")

	// ErrUpsertFailed indicates a write that failed after all retries.
	ErrUpsertFailed = errors.New("vector upsert failed")
)

// Store is the narrow contract the ingestion and query paths need from
// the vector index. Records are keyed by article URL; an existing key is
// never overwritten.
type Store interface {
	// Exists reports whether a record for the URL is already stored.
	// On lookup error it returns false: the optimistic default prefers
	// a possible duplicate-insert attempt (harmless, upsert skips) over
	// silently dropping an ingestion.
	Exists(ctx context.Context, url string) bool

	// Upsert writes the record unless the URL is already present, in
	// which case it is an idempotent no-op. Write failures are retried
	// per the store's retry policy before the last error surfaces.
	Upsert(ctx context.Context, url string, vector []float32, art article.Article) error

	// QuerySimilar returns up to topK nearest records by cosine
	// similarity, mapped into Source views with content populated for
	// prompt construction. An empty result is a valid outcome.
	QuerySimilar(ctx context.Context, vector []float32, topK int) ([]article.Source, error)

	// Close releases the underlying connection.
	Close() error
}
