// Package jsonfile persists output records as the JSON array artifact.
package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

// Writer writes records to a JSON file. The file is replaced atomically so
// readers never observe a partial array.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for path. Missing parent directories are
// created on Load.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Name implements pipeline.Loader.
func (w *Writer) Name() string { return "json" }

// Path returns the destination file.
func (w *Writer) Path() string { return w.path }

// Load writes records to the destination file.
func (w *Writer) Load(ctx context.Context, records []domain.OutputRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := domain.WriteJSON(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("rename to %s: %w", w.path, err)
	}

	w.logger.Debug("json output written", "path", w.path, "records", len(records))
	return nil
}

// ReadFile reads records previously written by a Writer.
func ReadFile(path string) ([]domain.OutputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := domain.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
