package intake

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Ingester runs the pipeline for one URL. Errors indicate a transient
// pipeline failure; the message is not redelivered.
type Ingester interface {
	Ingest(ctx context.Context, url string) error
}

// Consumer subscribes to a NATS subject and forwards each message's URL
// to the ingestion pipeline.
type Consumer struct {
	conn     *nats.Conn
	subject  string
	ingester Ingester
	logger   *zap.Logger
	sub      *nats.Subscription
}

// NewConsumer creates a NATS intake consumer.
func NewConsumer(conn *nats.Conn, subject string, ingester Ingester, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		conn:     conn,
		subject:  subject,
		ingester: ingester,
		logger:   logger.Named("intake"),
	}
}

// Start subscribes to the configured subject. Messages are handled on
// the NATS delivery goroutine; ingestion errors are logged and the
// stream continues.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.conn.Subscribe(c.subject, func(msg *nats.Msg) {
		url := ParseEnvelope(msg.Data)
		if err := c.ingester.Ingest(ctx, url); err != nil {
			c.logger.Error("ingestion failed",
				zap.String("url", url),
				zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", c.subject, err)
	}
	c.sub = sub
	c.logger.Info("intake consumer started", zap.String("subject", c.subject))
	return nil
}

// Stop drains the subscription so in-flight messages finish.
func (c *Consumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	if err := c.sub.Drain(); err != nil {
		return fmt.Errorf("draining subscription: %w", err)
	}
	return nil
}
