package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("transform complete", "records", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transform complete", entry["msg"])
	assert.InDelta(t, 3, entry["records"], 0)
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "text", &buf)

	logger.Info("hidden")
	logger.Warn("store slow", "driver", "mysql")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"store slow\"")
	assert.Contains(t, out, "driver=mysql")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
		"":        "INFO",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(in).String())
		})
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.Duplicates.Add(2)
	a.RowsDropped.WithLabelValues("price").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(a.Duplicates), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Duplicates), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.RowsDropped.WithLabelValues("price")), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordsLoaded.WithLabelValues("kafka").Add(5)
	m.LastSuccessSeconds.Set(42)

	path := filepath.Join(t.TempDir(), "etl.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `listing_etl_records_loaded_total{sink="kafka"} 5`)
	assert.Contains(t, string(data), "listing_etl_last_success_timestamp_seconds 42")
}

func TestMetrics_WriteTextfileBadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "etl.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}

func TestMetrics_CollectorCount(t *testing.T) {
	m := NewMetrics()
	m.RowsRead.WithLabelValues("listings").Add(10)
	m.RowsRead.WithLabelValues("climate").Add(4)

	n, err := testutil.GatherAndCount(m.Gatherer(), "listing_etl_rows_read_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
