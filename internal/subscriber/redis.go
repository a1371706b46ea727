package subscriber

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

const defaultRedisAddr = "localhost:6379"

// RedisOptions builds client options from a redis:// URL or a bare address
func RedisOptions(cfg config.QueueConfig) *redis.Options {
	if opts, err := redis.ParseURL(cfg.URL); err == nil {
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		if cfg.RedisDB != 0 {
			opts.DB = cfg.RedisDB
		}
		return opts
	}

	addr := cfg.URL
	if addr == "" {
		addr = defaultRedisAddr
	}
	return &redis.Options{
		Addr:         addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// RedisStreamPrefix returns the configured stream prefix or the default
func RedisStreamPrefix(cfg config.QueueConfig) string {
	if cfg.RedisStream == "" {
		return "cyclepeak"
	}
	return cfg.RedisStream
}

// RedisStreamName maps a subject to its stream key, {prefix}:{subject}
func RedisStreamName(prefix, subject string) string {
	return prefix + ":" + subject
}

// RedisSubscriber implements Subscriber for Redis Streams consumer groups
type RedisSubscriber struct {
	client        *redis.Client
	streamPrefix  string
	config        Config
	logger        *logging.Logger
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// NewRedisSubscriber creates a new Redis Streams subscriber
func NewRedisSubscriber(opts *redis.Options, streamPrefix string, cfg Config) (*RedisSubscriber, error) {
	cfg = cfg.withDefaults()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.QueueConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSubscriber{
		client:        client,
		streamPrefix:  streamPrefix,
		config:        cfg,
		logger:        cfg.Logger.With("component", "subscriber.redis"),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// Subscribe subscribes to a stream with the given handler
func (s *RedisSubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := RedisStreamName(s.streamPrefix, subject)
	if _, exists := s.subscriptions[stream]; exists {
		return fmt.Errorf("already subscribed to stream: %s", stream)
	}

	err := s.client.XGroupCreateMkStream(ctx, stream, s.config.ConsumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	s.subscriptions[stream] = cancel

	s.wg.Add(1)
	go s.consume(subCtx, stream, subject, handler)

	s.logger.Info("Subscribed to Redis stream",
		"stream", stream,
		"group", s.config.ConsumerGroup,
		"consumer", s.config.NodeID)
	return nil
}

func (s *RedisSubscriber) consume(ctx context.Context, stream, subject string, handler MessageHandler) {
	defer s.wg.Done()

	for ctx.Err() == nil {
		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.config.ConsumerGroup,
			Consumer: s.config.NodeID,
			Streams:  []string{stream, ">"},
			Count:    int64(s.config.BatchSize),
			Block:    time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			s.logger.Error("Failed to read from stream", "stream", stream, "error", err)
			time.Sleep(utils.QueueRetryBackoff)
			continue
		}

		for _, st := range streams {
			for _, msg := range st.Messages {
				s.handle(ctx, stream, subject, msg, handler)
			}
		}
	}
}

func (s *RedisSubscriber) handle(ctx context.Context, stream, subject string, msg redis.XMessage, handler MessageHandler) {
	data, ok := msg.Values["data"].(string)
	if !ok {
		s.logger.Warn("Dropping message without data field", "stream", stream, "id", msg.ID)
		s.client.XAck(ctx, stream, s.config.ConsumerGroup, msg.ID)
		return
	}

	if err := handler(ctx, subject, []byte(data)); err != nil {
		// left pending for redelivery
		s.logger.Error("Failed to handle message", "stream", stream, "id", msg.ID, "error", err)
		return
	}

	if err := s.client.XAck(ctx, stream, s.config.ConsumerGroup, msg.ID).Err(); err != nil {
		s.logger.Error("Failed to ACK message", "stream", stream, "id", msg.ID, "error", err)
	}
}

// Unsubscribe unsubscribes from a stream
func (s *RedisSubscriber) Unsubscribe(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := RedisStreamName(s.streamPrefix, subject)
	cancel, exists := s.subscriptions[stream]
	if !exists {
		return fmt.Errorf("not subscribed to stream: %s", stream)
	}

	cancel()
	delete(s.subscriptions, stream)
	return nil
}

// Close closes all subscriptions and the connection
func (s *RedisSubscriber) Close() error {
	s.mu.Lock()
	for _, cancel := range s.subscriptions {
		cancel()
	}
	s.subscriptions = make(map[string]context.CancelFunc)
	s.mu.Unlock()

	s.wg.Wait()

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	return nil
}
