package queue

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/soltixdb/cyclepeak/internal/subscriber"
)

// MemoryPublisher delivers messages to in-process memory subscribers
type MemoryPublisher struct {
	published atomic.Int64
	closed    atomic.Bool
}

// NewMemoryPublisher creates an in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish hands data to every memory subscription on subject. It fails when
// nobody accepted the message.
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if p.closed.Load() {
		return fmt.Errorf("memory publisher closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if subscriber.PublishToMemory(subject, data) == 0 {
		return fmt.Errorf("no memory subscriber accepted message on subject: %s", subject)
	}
	p.published.Add(1)
	return nil
}

// PublishBatch publishes messages one by one
func (p *MemoryPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	successCount := 0
	var lastErr error

	for _, msg := range messages {
		if err := p.Publish(ctx, msg.Subject, msg.Data); err != nil {
			lastErr = err
			continue
		}
		successCount++
	}

	if successCount == 0 && lastErr != nil {
		return 0, lastErr
	}
	return successCount, nil
}

// Published returns the number of delivered messages
func (p *MemoryPublisher) Published() int64 {
	return p.published.Load()
}

// Close marks the publisher closed
func (p *MemoryPublisher) Close() error {
	p.closed.Store(true)
	return nil
}
