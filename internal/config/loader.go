package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/cyclepeak") // System-wide config
	}

	setDefaults(v)

	// Enable environment variable overrides (CYCLEPEAK_SERVER_HTTP_PORT, ...)
	v.SetEnvPrefix("CYCLEPEAK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)

	v.SetDefault("auth.enabled", d.Auth.Enabled)

	v.SetDefault("queue.enabled", d.Queue.Enabled)
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.subject", d.Queue.Subject)
	v.SetDefault("queue.node_id", d.Queue.NodeID)
	v.SetDefault("queue.consumer_group", d.Queue.ConsumerGroup)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)

	v.SetDefault("aggregation.timezone", d.Aggregation.Timezone)
	v.SetDefault("aggregation.workers", d.Aggregation.Workers)
	v.SetDefault("aggregation.shard_size", d.Aggregation.ShardSize)
	v.SetDefault("aggregation.max_observations", d.Aggregation.MaxObservations)

	v.SetDefault("passes.max_active", d.Passes.MaxActive)
	v.SetDefault("passes.idle_timeout", d.Passes.IdleTimeout.String())
	v.SetDefault("passes.report_schedule", d.Passes.ReportSchedule)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5565,
		},
		Queue: QueueConfig{
			Enabled:       false,
			Type:          "nats",
			URL:           "nats://localhost:4222",
			Subject:       "cyclepeak.observations",
			NodeID:        "peakd-1",
			ConsumerGroup: "cyclepeak",
			RedisStream:   "cyclepeak",
		},
		Aggregation: AggregationConfig{
			Timezone:        "UTC",
			Workers:         4,
			ShardSize:       4096,
			MaxObservations: 1_000_000,
		},
		Passes: PassesConfig{
			MaxActive:      1000,
			IdleTimeout:    30 * time.Minute,
			ReportSchedule: "@every 1m",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
