package config

import (
	"fmt"
	"time"

	"github.com/joaopdss/news-article-agent/internal/logging"
)

// Config is the root configuration for the agent.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
	NATS       NATSConfig       `koanf:"nats"`
	Qdrant     QdrantConfig     `koanf:"qdrant"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	LLM        LLMConfig        `koanf:"llm"`
	Extract    ExtractConfig    `koanf:"extract"`
	Ingest     IngestConfig     `koanf:"ingest"`
	Query      QueryConfig      `koanf:"query"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// NATSConfig holds the streaming intake settings.
type NATSConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
	// Enabled turns the streaming consumer on. Batch-only deployments
	// run without a broker.
	Enabled bool `koanf:"enabled"`
}

// QdrantConfig holds vector index settings.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Collection string `koanf:"collection"`
	VectorSize uint64 `koanf:"vector_size"`
	UseTLS     bool   `koanf:"use_tls"`
}

// EmbeddingsConfig holds the embedding capability settings.
type EmbeddingsConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
	// MaxChars bounds the text submitted for embedding; longer input is
	// truncated, prefix preserved.
	MaxChars int `koanf:"max_chars"`
}

// LLMConfig holds the structuring/generation capability settings.
type LLMConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
}

// ExtractConfig holds content extraction settings.
type ExtractConfig struct {
	// MaxContentChars caps raw fetched content before structuring.
	MaxContentChars int           `koanf:"max_content_chars"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
}

// IngestConfig holds ingestion coordinator settings.
type IngestConfig struct {
	DedupCapacity int           `koanf:"dedup_capacity"`
	DedupWindow   time.Duration `koanf:"dedup_window"`
}

// QueryConfig holds query router settings.
type QueryConfig struct {
	// TopK is the number of similar records retrieved in knowledge mode.
	TopK int `koanf:"top_k"`
}

// Validate checks the configuration for fatal misconfiguration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Qdrant.Host == "" {
		return fmt.Errorf("qdrant host required")
	}
	if c.Qdrant.VectorSize == 0 {
		return fmt.Errorf("qdrant vector size required")
	}
	if c.Embeddings.BaseURL == "" {
		return fmt.Errorf("embeddings base URL required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm base URL required")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats url required when streaming intake is enabled")
	}
	if c.Query.TopK <= 0 {
		return fmt.Errorf("query top_k must be positive")
	}
	return nil
}
