package subscriber

import (
	"fmt"
	"strings"

	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

// NewSubscriber creates a new Subscriber based on the queue configuration.
// Node ID and consumer group come from cfg unless set in subCfg.
func NewSubscriber(cfg config.QueueConfig, subCfg Config) (Subscriber, error) {
	if subCfg.NodeID == "" {
		subCfg.NodeID = cfg.NodeID
	}
	if subCfg.ConsumerGroup == "" {
		subCfg.ConsumerGroup = cfg.ConsumerGroup
	}

	queueType := utils.QueueType(strings.ToLower(strings.TrimSpace(cfg.Type)))
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return NewNATSSubscriber(cfg.URL, NATSOptions(cfg, "subscriber-"+subCfg.NodeID), subCfg)
	case utils.QueueTypeRedis:
		return NewRedisSubscriber(RedisOptions(cfg), RedisStreamPrefix(cfg), subCfg)
	case utils.QueueTypeKafka:
		return NewKafkaSubscriber(cfg.KafkaBrokers, subCfg)
	case utils.QueueTypeMemory:
		return NewMemorySubscriber(subCfg), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", queueType)
	}
}
