package jsonfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

func sampleRecords() []domain.OutputRecord {
	price, beds, baths, sqft, ppsf := int64(250000), int64(3), int64(2), int64(1600), int64(156)
	zone := "AE"
	rain := domain.Inches(54.2)
	return []domain.OutputRecord{
		{
			APN:           "123456789",
			FullAddress:   "123 Main St, Miami, FL 33101",
			Price:         &price,
			Beds:          &beds,
			Baths:         &baths,
			Sqft:          &sqft,
			PricePerSqft:  &ppsf,
			Status:        "for_sale",
			FloodZone:     &zone,
			AvgRainInches: &rain,
		},
		{
			APN:         "987654321",
			FullAddress: "1 Elm St",
			Price:       &price,
			Sqft:        &sqft,
			Status:      "sold",
		},
	}
}

func TestWriter_LoadAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "listings_enriched.json")
	w := NewWriter(path, slog.Default())

	require.NoError(t, w.Load(context.Background(), sampleRecords()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecords(), got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriter_EmptyInputWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewWriter(path, slog.Default())

	require.NoError(t, w.Load(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	w := NewWriter(path, slog.Default())
	require.NoError(t, w.Load(context.Background(), sampleRecords()[:1]))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestWriter_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewWriter(path, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, w.Load(ctx, sampleRecords()), context.Canceled)
	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_Name(t *testing.T) {
	assert.Equal(t, "json", NewWriter("x.json", slog.Default()).Name())
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"apn": 1}`), 0o644))
	_, err = ReadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
