package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/joaopdss/news-article-agent/internal/article"
)

// Tracer for OpenTelemetry instrumentation.
var tracer = otel.Tracer("news-article-agent.vectorstore.qdrant")

// Default configuration values.
const (
	defaultMaxRetries     = 2
	defaultInitialBackoff = 2 * time.Second
	defaultMaxMessageSize = 50 * 1024 * 1024

	// readyPollInterval is how often collection readiness is re-checked
	// after creation.
	readyPollInterval = 5 * time.Second
)

// QdrantConfig holds configuration for the Qdrant gRPC client.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	Host string

	// Port is the Qdrant gRPC port (6334), NOT the HTTP REST port (6333).
	Port int

	// Collection is the collection holding article records.
	Collection string

	// VectorSize is the embedding dimensionality. MUST match the
	// embedding model output; a mismatch is a startup configuration
	// error, never a per-record one.
	VectorSize uint64

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// MaxRetries is the number of additional write attempts after the
	// first failure. Default: 2 (three attempts total).
	MaxRetries int

	// Retry maps attempt number to backoff delay. Default: exponential
	// starting at 2s (2s, 4s, ...).
	Retry RetryPolicy
}

// Validate validates the configuration.
func (c QdrantConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Port)
	}
	if c.Collection == "" {
		return fmt.Errorf("%w: collection required", ErrInvalidConfig)
	}
	if c.VectorSize == 0 {
		return fmt.Errorf("%w: vector size required", ErrInvalidConfig)
	}
	return nil
}

// ApplyDefaults sets default values for unset fields.
func (c *QdrantConfig) ApplyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.Retry == nil {
		c.Retry = ExponentialBackoff(defaultInitialBackoff)
	}
}

// QdrantStore is a Store implementation using Qdrant's native gRPC
// client. gRPC avoids the REST layer's payload limits on large article
// bodies and keeps the full feature surface available.
type QdrantStore struct {
	client qdrantClient
	config QdrantConfig
	logger *zap.Logger
}

// qdrantClient is the slice of the Qdrant client the store uses,
// extracted so tests can substitute a fake.
type qdrantClient interface {
	Get(ctx context.Context, req *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error)
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	CollectionExists(ctx context.Context, collection string) (bool, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	GetCollectionInfo(ctx context.Context, collection string) (*qdrant.CollectionInfo, error)
	Close() error
}

// NewQdrantStore connects to Qdrant and ensures the article collection
// exists with the configured dimension before returning.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig, logger *zap.Logger) (*QdrantStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(defaultMaxMessageSize),
				grpc.MaxCallSendMsgSize(defaultMaxMessageSize),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &QdrantStore{
		client: client,
		config: cfg,
		logger: logger.Named("vectorstore"),
	}

	if err := store.ensureCollection(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ensuring collection %s: %w", cfg.Collection, err)
	}

	return store, nil
}

// Close closes the Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// pointID derives the deterministic Qdrant point ID for a URL. Qdrant
// point keys must be UUIDs or integers, so the URL is mapped through a
// name-based UUID; the raw URL is preserved in the payload.
func pointID(url string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String())
}

// Exists reports whether a record for the URL is already stored.
func (s *QdrantStore) Exists(ctx context.Context, url string) bool {
	ctx, span := tracer.Start(ctx, "QdrantStore.Exists")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.config.Collection,
		Ids:            []*qdrant.PointId{pointID(url)},
	})
	if err != nil {
		// Optimistic default: a duplicate-insert attempt downstream is
		// idempotent, dropping the ingestion is not recoverable.
		span.RecordError(err)
		s.logger.Warn("existence check failed, assuming not stored",
			zap.String("url", url),
			zap.Error(err))
		return false
	}

	exists := len(points) > 0
	span.SetAttributes(attribute.Bool("exists", exists))
	span.SetStatus(codes.Ok, "success")
	return exists
}

// Upsert writes the article record unless the URL is already present.
func (s *QdrantStore) Upsert(ctx context.Context, url string, vector []float32, art article.Article) error {
	ctx, span := tracer.Start(ctx, "QdrantStore.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.String("collection", s.config.Collection),
	)

	if s.Exists(ctx, url) {
		s.logger.Info("record already ingested, skipping upsert",
			zap.String("url", url))
		span.SetStatus(codes.Ok, "skipped")
		return nil
	}

	point := &qdrant.PointStruct{
		Id:      pointID(url),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"title":   art.Title,
			"content": art.Content,
			"url":     art.URL,
			"date":    art.Date,
		}),
	}

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			upsertRetries.Inc()
			delay := s.config.Retry(attempt)
			s.logger.Warn("retrying upsert",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return fmt.Errorf("upsert canceled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.config.Collection,
			Points:         []*qdrant.PointStruct{point},
		})
		if err == nil {
			span.SetStatus(codes.Ok, "success")
			return nil
		}
		lastErr = err
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return fmt.Errorf("%w after %d attempts: %v", ErrUpsertFailed, s.config.MaxRetries+1, lastErr)
}

// QuerySimilar returns the topK nearest records by cosine similarity.
func (s *QdrantStore) QuerySimilar(ctx context.Context, vector []float32, topK int) ([]article.Source, error) {
	ctx, span := tracer.Start(ctx, "QdrantStore.QuerySimilar")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("top_k", topK),
	)

	if topK <= 0 {
		topK = 1
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.config.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	sources := make([]article.Source, 0, len(points))
	for _, point := range points {
		sources = append(sources, sourceFromPayload(point.Payload))
	}

	span.SetAttributes(attribute.Int("results_count", len(sources)))
	span.SetStatus(codes.Ok, "success")
	return sources, nil
}

// sourceFromPayload maps a stored payload back into a Source view.
// Content stays populated here; the answer assembler strips it before
// anything leaves the process.
func sourceFromPayload(payload map[string]*qdrant.Value) article.Source {
	var src article.Source
	if payload == nil {
		return src
	}
	src.Title = payload["title"].GetStringValue()
	src.URL = payload["url"].GetStringValue()
	src.Date = payload["date"].GetStringValue()
	src.Content = payload["content"].GetStringValue()
	return src
}

// ensureCollection creates the article collection if missing and waits
// until it reports ready. A pre-existing collection with a different
// vector dimension is flagged but not fatal here; embedding writes will
// surface the mismatch.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.config.Collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}

	if !exists {
		s.logger.Info("creating collection",
			zap.String("collection", s.config.Collection),
			zap.Uint64("vector_size", s.config.VectorSize))
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.config.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.config.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
	}

	return s.awaitReady(ctx)
}

// awaitReady polls collection status until it reports green.
func (s *QdrantStore) awaitReady(ctx context.Context) error {
	for {
		info, err := s.client.GetCollectionInfo(ctx, s.config.Collection)
		if err != nil {
			return fmt.Errorf("getting collection info: %w", err)
		}

		if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
			if size := params.GetSize(); size != s.config.VectorSize {
				s.logger.Warn("collection vector size differs from configured size",
					zap.String("collection", s.config.Collection),
					zap.Uint64("collection_size", size),
					zap.Uint64("configured_size", s.config.VectorSize))
			}
		}

		if info.GetStatus() == qdrant.CollectionStatus_Green {
			return nil
		}

		s.logger.Info("waiting for collection to become ready",
			zap.String("collection", s.config.Collection),
			zap.String("status", info.GetStatus().String()))

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for collection: %w", ctx.Err())
		case <-time.After(readyPollInterval):
		}
	}
}

// Ensure QdrantStore implements Store.
var _ Store = (*QdrantStore)(nil)
