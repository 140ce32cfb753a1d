// Command etl reads the listings and climate tables, cleans and enriches the
// listings, and writes the result as a JSON array.
//
// Usage:
//
//	go run ./cmd/etl -listings data/listings.csv -climate data/climate.csv -out data/listings_enriched.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/listing-enrichment-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/observability"
	"github.com/couchcryptid/listing-enrichment-etl/internal/pipeline"
	"github.com/couchcryptid/listing-enrichment-etl/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	listings := flag.String("listings", cfg.ListingsPath, "listings table (.csv, .xlsx or .shp)")
	climate := flag.String("climate", cfg.ClimatePath, "climate table (.csv, .xlsx or .shp)")
	out := flag.String("out", cfg.OutputPath, "output JSON path")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := jsonfile.NewWriter(*out, logger)
	p := pipeline.New(
		source.NewFileExtractor(*listings, *climate, logger),
		pipeline.NewTransformer(logger),
		[]pipeline.Loader{writer},
		logger,
		metrics,
	)

	stats, runErr := p.Run(ctx)
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics export failed", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("etl failed", "error", runErr)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s with %d records.\n", writer.Path(), stats.Output)
}
