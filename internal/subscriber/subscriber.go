// Package subscriber consumes observation batches from the configured
// message queue.
package subscriber

import (
	"context"

	"github.com/soltixdb/cyclepeak/internal/logging"
)

// MessageHandler is a function that processes incoming messages.
// A non-nil error leaves the message unacknowledged where the transport
// supports redelivery.
type MessageHandler func(ctx context.Context, subject string, data []byte) error

// Subscriber defines the interface for message subscription
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with the given handler
	Subscribe(ctx context.Context, subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the subscriber and releases resources
	Close() error
}

// Config holds common subscriber configuration
type Config struct {
	// NodeID is the unique identifier for this subscriber node
	NodeID string

	// ConsumerGroup is the consumer group name for group-based consumption
	ConsumerGroup string

	// MaxDeliver bounds redelivery of a failing message (NATS)
	MaxDeliver int

	// BatchSize is the number of messages to fetch at once (Redis)
	BatchSize int

	Logger *logging.Logger
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		NodeID:        "peakd-1",
		ConsumerGroup: "cyclepeak",
		MaxDeliver:    3,
		BatchSize:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NodeID == "" {
		c.NodeID = d.NodeID
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = d.ConsumerGroup
	}
	if c.MaxDeliver <= 0 {
		c.MaxDeliver = d.MaxDeliver
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.Logger == nil {
		c.Logger = logging.Global()
	}
	return c
}
