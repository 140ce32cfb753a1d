package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_UnknownSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	_, err := run(context.Background(), &config.Config{}, discardLogger(), observability.NewMetrics(), options{
		jsonPath: path,
		sink:     "s3",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-sink")
}

func TestRun_MissingArtifact(t *testing.T) {
	_, err := run(context.Background(), &config.Config{}, discardLogger(), observability.NewMetrics(), options{
		jsonPath: filepath.Join(t.TempDir(), "missing.json"),
		sink:     sinkKafka,
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_KafkaEmptyArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "listings-enriched", BatchSize: 50}
	msg, err := run(context.Background(), cfg, discardLogger(), observability.NewMetrics(), options{
		jsonPath: path,
		sink:     sinkKafka,
	})
	require.NoError(t, err)
	assert.Equal(t, "Loaded 0 rows into Kafka topic listings-enriched.", msg)
}
