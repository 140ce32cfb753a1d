// Command load upserts a previously written JSON artifact into the
// configured relational store, or publishes it to Kafka.
//
// Usage:
//
//	go run ./cmd/load -json data/listings_enriched.json [-sink store|kafka] [-create-table] [-password-prompt]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/listing-enrichment-etl/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/listing-enrichment-etl/internal/adapter/kafka"
	"github.com/couchcryptid/listing-enrichment-etl/internal/adapter/store"
	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/observability"
	"github.com/couchcryptid/listing-enrichment-etl/internal/pipeline"
	"github.com/google/uuid"
)

const (
	sinkStore = "store"
	sinkKafka = "kafka"
)

var driverNames = map[string]string{
	config.DriverMySQL:    "MySQL",
	config.DriverPostgres: "PostgreSQL",
	config.DriverOracle:   "Oracle",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	jsonPath := flag.String("json", cfg.OutputPath, "JSON artifact written by the etl command")
	sink := flag.String("sink", sinkStore, "destination: store or kafka")
	createTable := flag.Bool("create-table", false, "create the table when it does not exist")
	passwordPrompt := flag.Bool("password-prompt", false, "read the database password from the terminal")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msg, runErr := run(ctx, cfg, logger, metrics, options{
		jsonPath:       *jsonPath,
		sink:           *sink,
		createTable:    *createTable,
		passwordPrompt: *passwordPrompt,
	})
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics export failed", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("load failed", "error", runErr)
		os.Exit(1)
	}
	fmt.Println(msg)
}

type options struct {
	jsonPath       string
	sink           string
	createTable    bool
	passwordPrompt bool
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, opts options) (string, error) {
	records, err := jsonfile.ReadFile(opts.jsonPath)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	var (
		loader pipeline.Loader
		target string
	)
	switch opts.sink {
	case sinkStore:
		if opts.passwordPrompt {
			if err := cfg.PromptPassword(os.Stderr); err != nil {
				return "", err
			}
		}
		s, err := store.Open(ctx, cfg.DB, cfg.BatchSize, logger)
		if err != nil {
			return "", err
		}
		defer s.Close()
		if opts.createTable {
			if err := s.EnsureTable(ctx); err != nil {
				return "", err
			}
		}
		loader = store.NewLoader(s, cfg.DB.Driver)
		target = driverNames[cfg.DB.Driver]
	case sinkKafka:
		w := kafkaadapter.NewWriter(cfg, runID, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loader = w
		target = "Kafka topic " + cfg.KafkaTopic
	default:
		return "", errors.New(`-sink must be "store" or "kafka"`)
	}

	p := pipeline.New(nil, nil, []pipeline.Loader{loader}, logger, metrics, pipeline.WithRunID(runID))
	if err := p.Replay(ctx, records); err != nil {
		return "", err
	}
	return fmt.Sprintf("Loaded %d rows into %s.", len(records), target), nil
}
