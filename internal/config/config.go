package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Passes      PassesConfig      `mapstructure:"passes"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// QueueConfig represents message queue configuration for observation ingest
type QueueConfig struct {
	Enabled  bool   `mapstructure:"enabled"`  // Consume observation batches from the queue
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication
	Subject  string `mapstructure:"subject"`  // Subject/topic carrying observation batches

	// Subscriber identity
	NodeID        string `mapstructure:"node_id"`
	ConsumerGroup string `mapstructure:"consumer_group"`

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "cyclepeak")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AggregationConfig controls how observations are parsed and reduced
type AggregationConfig struct {
	// Timezone used to read timestamps without an explicit offset, and the zone
	// in which weekdays and months are evaluated (e.g., "Asia/Tokyo", "+09:00", "UTC")
	Timezone        string `mapstructure:"timezone"`
	Workers         int    `mapstructure:"workers"`          // Max goroutines per reduction
	ShardSize       int    `mapstructure:"shard_size"`       // Observations per partial state
	MaxObservations int    `mapstructure:"max_observations"` // Max observations accepted per request
}

// PassesConfig controls long-lived streaming aggregation passes
type PassesConfig struct {
	MaxActive      int           `mapstructure:"max_active"`      // Max concurrently open passes
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`    // Passes idle longer than this are evicted
	ReportSchedule string        `mapstructure:"report_schedule"` // Cron spec for the pass report job, empty disables it
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Aggregation.Validate(); err != nil {
		return fmt.Errorf("aggregation config: %w", err)
	}

	if err := c.Passes.Validate(); err != nil {
		return fmt.Errorf("passes config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Subject == "" {
		return fmt.Errorf("queue.subject is required when the queue is enabled")
	}

	switch c.Type {
	case "", "nats", "redis", "memory":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("queue.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	return nil
}

// Validate validates aggregation configuration
func (c *AggregationConfig) Validate() error {
	if c.Timezone != "" {
		if _, err := ParseTimezone(c.Timezone); err != nil {
			return fmt.Errorf("aggregation.timezone: %w", err)
		}
	}

	if c.Workers < 1 {
		return fmt.Errorf("aggregation.workers must be at least 1")
	}

	if c.ShardSize < 1 {
		return fmt.Errorf("aggregation.shard_size must be at least 1")
	}

	if c.MaxObservations < 1 {
		return fmt.Errorf("aggregation.max_observations must be at least 1")
	}

	return nil
}

// Validate validates pass configuration
func (c *PassesConfig) Validate() error {
	if c.MaxActive < 1 {
		return fmt.Errorf("passes.max_active must be at least 1")
	}

	if c.IdleTimeout <= 0 {
		return fmt.Errorf("passes.idle_timeout must be positive")
	}

	if c.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			return fmt.Errorf("passes.report_schedule: %w", err)
		}
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
