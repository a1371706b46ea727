package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

// NewPublisher creates a Publisher based on configuration.
// Default is NATS if type is not specified.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	queueType := utils.QueueType(strings.ToLower(strings.TrimSpace(cfg.Type)))
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return NewNATSPublisher(cfg.URL, subscriber.NATSOptions(cfg, "publisher-"+cfg.NodeID)...)
	case utils.QueueTypeRedis:
		return NewRedisPublisher(subscriber.RedisOptions(cfg), subscriber.RedisStreamPrefix(cfg))
	case utils.QueueTypeKafka:
		return NewKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers})
	case utils.QueueTypeMemory:
		return NewMemoryPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}
