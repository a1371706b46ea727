package utils

import "time"

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout bounds a single peak computation triggered over HTTP
	DefaultRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second
)

// Queue client timeouts
const (
	// QueueConnectTimeout bounds the initial broker handshake
	QueueConnectTimeout = 5 * time.Second

	// QueueRetryBackoff is the pause after a failed fetch before polling again
	QueueRetryBackoff = time.Second
)

// Buffer and Batch Size Constants
const (
	// DefaultBatchSize is the number of observations per published batch
	DefaultBatchSize = 1000

	// MemoryChannelSize is the buffer of in-memory subscriptions
	MemoryChannelSize = 1000
)

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)

// Version is reported by the health endpoint
const Version = "1.0.0"
