// Package ingest feeds queued observation batches into aggregation passes.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
	"github.com/soltixdb/cyclepeak/internal/services"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
)

// BatchObserver is the part of the peak service the consumer drives
type BatchObserver interface {
	ObserveBatch(ctx context.Context, batch *models.ObservationBatch) (*models.ObserveResponse, error)
}

// Consumer subscribes to the observation subject and applies every batch
type Consumer struct {
	subject    string
	logger     *logging.Logger
	subscriber subscriber.Subscriber
	observer   BatchObserver

	processed atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64

	// Context for subscription handlers
	ctx    context.Context
	cancel context.CancelFunc
}

// NewConsumer creates a consumer for subject
func NewConsumer(sub subscriber.Subscriber, subject string, observer BatchObserver, logger *logging.Logger) (*Consumer, error) {
	if sub == nil {
		return nil, fmt.Errorf("subscriber is nil")
	}
	if observer == nil {
		return nil, fmt.Errorf("observer is nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is empty")
	}
	if logger == nil {
		logger = logging.Global()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		subject:    subject,
		logger:     logger,
		subscriber: sub,
		observer:   observer,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start subscribes to the observation subject
func (c *Consumer) Start() error {
	c.logger.Info("Subscribing to observation subject", "subject", c.subject)

	if err := c.subscriber.Subscribe(c.ctx, c.subject, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	return nil
}

// Stop cancels in-flight handlers and unsubscribes
func (c *Consumer) Stop() error {
	c.cancel()
	return c.subscriber.Unsubscribe(c.subject)
}

// handleMessage applies one batch. Malformed batches and rejected values are
// logged and acknowledged; only cancellation asks for redelivery.
func (c *Consumer) handleMessage(ctx context.Context, subject string, data []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	batch, err := models.DecodeObservationBatch(data)
	if err != nil {
		c.rejected.Add(1)
		c.logger.Warn("Dropping malformed observation batch",
			"subject", subject,
			"error", err,
			"data_len", len(data))
		return nil
	}

	ctx = logging.WithPassID(ctx, batch.PassID)
	resp, err := c.observer.ObserveBatch(ctx, batch)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
			services.ErrorCode(err) == services.CodeRequestCancelled {
			c.failed.Add(1)
			return err
		}
		c.rejected.Add(1)
		c.logger.WithContext(ctx).Warn("Observation batch rejected",
			"code", services.ErrorCode(err),
			"error", err,
			"values", len(batch.Values))
		return nil
	}

	c.processed.Add(1)
	c.logger.WithContext(ctx).Debug("Observation batch applied",
		"accepted", resp.Accepted,
		"skipped", resp.Skipped,
		"count", resp.Count)
	return nil
}

// Stats returns consumer counters
func (c *Consumer) Stats() map[string]interface{} {
	return map[string]interface{}{
		"subject":   c.subject,
		"processed": c.processed.Load(),
		"rejected":  c.rejected.Load(),
		"failed":    c.failed.Load(),
	}
}
