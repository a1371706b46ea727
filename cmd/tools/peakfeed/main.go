package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/feed"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/queue"
	"github.com/soltixdb/cyclepeak/internal/services"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

func main() {
	// Command line flags
	file := flag.String("file", "", "CSV/TSV file to read")
	column := flag.String("column", "", "Column name or 1-based position")
	kind := flag.String("kind", "time_of_day", "Peak kind (time_of_day, day_of_week, month)")
	delimiter := flag.String("delimiter", "", "Delimiter override (default: sniffed)")
	noHeader := flag.Bool("no-header", false, "First row is data; columns are named column_1..n")
	timezone := flag.String("timezone", "", "Timezone for timestamps without offset (default: config aggregation.timezone)")
	publish := flag.Bool("publish", false, "Publish values to the configured queue instead of computing locally")
	configPath := flag.String("config", "", "Path to configuration file (queue and aggregation settings)")
	passID := flag.String("pass-id", "", "Pass ID for published batches (default: random)")
	batchSize := flag.Int("batch-size", utils.DefaultBatchSize, "Values per published batch")

	flag.Parse()

	logger := logging.NewDevelopment()

	// Validate required parameters
	if *file == "" || *column == "" {
		logger.Fatal("Both -file and -column are required")
	}
	if _, err := aggregation.ParseKind(*kind); err != nil {
		logger.Fatal("Invalid kind", "kind", *kind, "error", err)
	}

	cfg := config.LoadOrDefault(*configPath)

	loc := cfg.Aggregation.GetTimezone()
	if *timezone != "" {
		parsed, err := config.ParseTimezone(*timezone)
		if err != nil {
			logger.Fatal("Invalid timezone", "timezone", *timezone, "error", err)
		}
		loc = parsed
	}

	opts := feed.ReadOptions{NoHeader: *noHeader}
	if *delimiter != "" {
		d, err := parseDelimiter(*delimiter)
		if err != nil {
			logger.Fatal("Invalid delimiter", "delimiter", *delimiter, "error", err)
		}
		opts.Delimiter = d
	}

	// Read and parse data
	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open file", "file", *file, "error", err)
	}
	table, err := feed.Read(f, opts)
	_ = f.Close()
	if err != nil {
		logger.Fatal("Failed to read file", "file", *file, "error", err)
	}

	values, err := table.Column(*column)
	if err != nil {
		logger.Fatal("Failed to select column", "error", err)
	}
	logger.Debug("File loaded",
		"file", *file,
		"delimiter", feed.DelimiterName(table.Delimiter),
		"rows", len(table.Rows))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var summary interface{ Render() ([]byte, error) }
	if *publish {
		summary, err = publishValues(ctx, cfg, table, *file, *column, *kind, *passID, values, *batchSize)
	} else {
		summary, err = computeLocally(ctx, cfg, loc, logger, table, *file, *column, *kind, values)
	}
	if err != nil {
		logger.Fatal("Run failed", "error", err)
	}

	out, err := summary.Render()
	if err != nil {
		logger.Fatal("Failed to render summary", "error", err)
	}
	fmt.Print(string(out))
}

func computeLocally(
	ctx context.Context,
	cfg *config.Config,
	loc *time.Location,
	logger *logging.Logger,
	table *feed.Table,
	file, column, kind string,
	values []string,
) (*feed.PeakSummary, error) {
	reducer := aggregation.NewReducer(aggregation.ReducerConfig{
		Workers:   cfg.Aggregation.Workers,
		ShardSize: cfg.Aggregation.ShardSize,
	}, logger)
	svc := services.NewPeakService(logger, reducer, aggregation.NewPassRegistry(1), services.PeakServiceConfig{
		Location: loc,
	})

	peak, err := svc.Compute(ctx, kind, values)
	if err != nil {
		return nil, err
	}
	return feed.NewPeakSummary(file, column, table, peak), nil
}

func publishValues(
	ctx context.Context,
	cfg *config.Config,
	table *feed.Table,
	file, column, kind, passID string,
	values []string,
	batchSize int,
) (*feed.PublishSummary, error) {
	publisher, err := queue.NewPublisher(cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}
	defer func() { _ = publisher.Close() }()

	if passID == "" {
		passID = uuid.New().String()
	}

	batches, err := queue.PublishObservations(ctx, publisher, cfg.Queue.Subject, passID, kind, values, batchSize)
	if err != nil {
		return nil, err
	}
	return feed.NewPublishSummary(file, column, kind, table, passID, cfg.Queue.Subject, batches), nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "comma", ",":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "colon", ":":
		return ':', nil
	case "pipe", "|":
		return '|', nil
	case "space", " ":
		return ' ', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter %q (supported: comma, tab, colon, pipe, space)", s)
	}
}
