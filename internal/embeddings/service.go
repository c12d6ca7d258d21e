// Package embeddings provides embedding generation via langchaingo.
//
// It wraps an OpenAI-compatible embedding endpoint (OpenAI itself or a
// local TEI server) behind a single-text Embed call with input size
// bounding. The vector dimension is fixed by the model; callers verify
// it against the vector index at startup.
package embeddings

import (
	"context"
	"errors"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var (
	// ErrEmptyInput indicates empty input text.
	ErrEmptyInput = errors.New("empty input text")

	// ErrNoVector indicates the provider returned no vector values.
	// A zero or empty vector cannot be defaulted: storing one would
	// corrupt similarity search, so this always surfaces to the caller.
	ErrNoVector = errors.New("provider returned no vector values")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid embeddings configuration")
)

// Config holds configuration for the embedding service.
type Config struct {
	// BaseURL is the OpenAI-compatible embedding endpoint.
	BaseURL string

	// Model is the embedding model, e.g. BAAI/bge-base-en-v1.5 (768 dims)
	// or text-embedding-3-small (1536 dims).
	Model string

	// APIKey is required for OpenAI, optional for a local TEI server.
	APIKey string

	// MaxChars bounds the text length submitted to the provider.
	// Longer input is truncated prefix-preserving; truncation is logged,
	// never an error.
	MaxChars int
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// Service generates fixed-dimension embedding vectors for text.
type Service struct {
	embedder lcembeddings.Embedder
	maxChars int
	logger   *zap.Logger
}

// NewService creates an embedding service backed by an OpenAI-compatible
// endpoint.
func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token; TEI ignores it.
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return NewServiceWithEmbedder(embedder, cfg.MaxChars, logger), nil
}

// NewServiceWithEmbedder wraps an existing langchaingo embedder. Used by
// tests to substitute a fake provider.
func NewServiceWithEmbedder(embedder lcembeddings.Embedder, maxChars int, logger *zap.Logger) *Service {
	if maxChars <= 0 {
		maxChars = 12000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embedder: embedder,
		maxChars: maxChars,
		logger:   logger.Named("embeddings"),
	}
}

// Embed generates the embedding vector for text.
//
// Input longer than the configured cap is truncated before submission to
// bound cost and latency. Provider errors and empty vectors fail hard.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	if len(text) > s.maxChars {
		s.logger.Info("truncating embedding input",
			zap.Int("original_chars", len(text)),
			zap.Int("max_chars", s.maxChars))
		text = text[:s.maxChars]
	}

	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrNoVector
	}

	return vector, nil
}
