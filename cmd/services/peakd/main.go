package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/ingest"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/router"
	"github.com/soltixdb/cyclepeak/internal/scheduler"
	"github.com/soltixdb/cyclepeak/internal/services"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Peak service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// 3. Aggregation timezone
	loc := cfg.Aggregation.GetTimezone()
	logger.Info("Using aggregation timezone", "timezone", loc.String())

	// 4. Reducer, pass registry and peak service
	reducer := aggregation.NewReducer(aggregation.ReducerConfig{
		Workers:   cfg.Aggregation.Workers,
		ShardSize: cfg.Aggregation.ShardSize,
	}, logger)
	registry := aggregation.NewPassRegistry(cfg.Passes.MaxActive)
	peakService := services.NewPeakService(logger, reducer, registry, services.PeakServiceConfig{
		Location:        loc,
		MaxObservations: cfg.Aggregation.MaxObservations,
	})

	// 5. Queue ingest (optional)
	if cfg.Queue.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		sub, err := subscriber.NewSubscriber(cfg.Queue, subscriber.Config{Logger: logger})
		if err != nil {
			logger.Fatal("Failed to create subscriber", "error", err)
		}
		defer func() { _ = sub.Close() }()

		consumer, err := ingest.NewConsumer(sub, cfg.Queue.Subject, peakService, logger)
		if err != nil {
			logger.Fatal("Failed to create ingest consumer", "error", err)
		}
		if err := consumer.Start(); err != nil {
			logger.Fatal("Failed to start ingest consumer", "error", err)
		}
		defer func() { _ = consumer.Stop() }()

		logger.Info("Queue ingest started", "subject", cfg.Queue.Subject)
	} else {
		logger.Info("Queue ingest is disabled in configuration")
	}

	// 6. Pass report and eviction job
	sched, err := scheduler.New(peakService, cfg.Passes, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// 7. HTTP server
	app := router.New(logger, peakService, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down server...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Peak service stopped", "active_passes", registry.Len())
}
