package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

// RedisPublisher appends messages to Redis Streams
type RedisPublisher struct {
	client       *redis.Client
	streamPrefix string
}

// NewRedisPublisher connects to Redis and returns a publisher
func NewRedisPublisher(opts *redis.Options, streamPrefix string) (*RedisPublisher, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.QueueConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: client, streamPrefix: streamPrefix}, nil
}

func (p *RedisPublisher) xaddArgs(subject string, data []byte) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: subscriber.RedisStreamName(p.streamPrefix, subject),
		ID:     "*",
		Values: map[string]interface{}{"data": data},
	}
}

// Publish appends a message to the subject's stream
func (p *RedisPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.client.XAdd(ctx, p.xaddArgs(subject, data)).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream for %s: %w", subject, err)
	}
	return nil
}

// PublishBatch appends all messages in one pipeline
func (p *RedisPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := p.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, p.xaddArgs(msg.Subject, msg.Data))
	}

	cmds, err := pipe.Exec(ctx)
	successCount := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			successCount++
		}
	}
	if err != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}
	return successCount, nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
