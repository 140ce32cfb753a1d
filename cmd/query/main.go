// Command query runs one SQL statement against the configured store and
// prints the result as tab-separated text with a header row.
//
// Usage:
//
//	go run ./cmd/query -sql "SELECT COUNT(*) FROM listings_enriched"
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/listing-enrichment-etl/internal/adapter/store"
	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/observability"
)

func main() {
	query := flag.String("sql", "", "SQL to run, e.g. SELECT COUNT(*) FROM listings_enriched")
	passwordPrompt := flag.Bool("password-prompt", false, "read the database password from the terminal")
	flag.Parse()

	if strings.TrimSpace(*query) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if *passwordPrompt {
		if err := cfg.PromptPassword(os.Stderr); err != nil {
			logger.Error("password prompt failed", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, cfg.DB, cfg.BatchSize, logger)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	rs, err := s.Query(ctx, *query)
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
	if err := writeTSV(os.Stdout, rs); err != nil {
		logger.Error("write result failed", "error", err)
		os.Exit(1)
	}
}

// writeTSV prints the column names, when the statement returned any, and
// then one line per row. NULL prints as an empty field.
func writeTSV(w io.Writer, rs *store.ResultSet) error {
	bw := bufio.NewWriter(w)
	if len(rs.Columns) > 0 {
		fmt.Fprintln(bw, strings.Join(rs.Columns, "\t"))
	}
	fields := make([]string, 0, len(rs.Columns))
	for _, row := range rs.Rows {
		fields = fields[:0]
		for _, v := range row {
			fields = append(fields, store.FormatValue(v))
		}
		fmt.Fprintln(bw, strings.Join(fields, "\t"))
	}
	return bw.Flush()
}
